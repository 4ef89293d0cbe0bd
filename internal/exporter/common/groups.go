package common

import (
	"fmt"
	"strings"

	"route-recon/internal/model"
)

// DefaultTag groups endpoints that declare no tags
const DefaultTag = "default"

// TagGroup is the endpoints filed under one tag
type TagGroup struct {
	Tag       string
	Endpoints []model.EndpointInfo
}

// GroupByTag files each endpoint under its first tag. Groups keep the order in which
// their tag first appears; endpoints inside a group are sorted by path and verb.
func GroupByTag(endpoints []model.EndpointInfo) []TagGroup {
	var groups []TagGroup
	index := make(map[string]int)

	for _, ep := range endpoints {
		tag := DefaultTag
		if len(ep.Tags) > 0 && strings.TrimSpace(ep.Tags[0]) != "" {
			tag = ep.Tags[0]
		}
		i, ok := index[tag]
		if !ok {
			i = len(groups)
			index[tag] = i
			groups = append(groups, TagGroup{Tag: tag})
		}
		groups[i].Endpoints = append(groups[i].Endpoints, ep)
	}

	for i := range groups {
		groups[i].Endpoints = SortEndpoints(groups[i].Endpoints)
	}
	return groups
}

// FormatParam renders a parameter as "name: type = default (location)"
func FormatParam(p model.EndpointParameter) string {
	var sb strings.Builder
	sb.WriteString(p.Name)
	sb.WriteString(": ")
	sb.WriteString(p.DeclaredType)
	if p.DefaultValue != nil {
		fmt.Fprintf(&sb, " = %s", *p.DefaultValue)
	}
	fmt.Fprintf(&sb, " (%s)", p.Location)
	return sb.String()
}

// FormatParams joins FormatParam over params with sep
func FormatParams(params []model.EndpointParameter, sep string) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, FormatParam(p))
	}
	return strings.Join(parts, sep)
}
