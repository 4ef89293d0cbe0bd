package docgen

import (
	"fmt"
	"strings"

	"route-recon/internal/model"
)

const (
	writerSystem = "You are an expert technical writer specializing in API documentation. " +
		"Generate clear, comprehensive, and well-structured API documentation in Markdown format. " +
		"Include examples, describe all parameters, and provide useful context for developers."
	reviewerSystem = "You are a QA reviewer for API documentation."
	refinerSystem  = "You are an expert technical writer fixing documentation errors."
)

// DescribeEndpoints renders the extracted endpoints as the factual context of every prompt
func DescribeEndpoints(endpoints []model.EndpointInfo) string {
	var sb strings.Builder
	for _, ep := range endpoints {
		fmt.Fprintf(&sb, "### %s %s\n", ep.Method, ep.Path)
		fmt.Fprintf(&sb, "- **Function**: %s\n", ep.HandlerName)
		fmt.Fprintf(&sb, "- **Summary**: %s\n", orNotProvided(ep.Summary))
		fmt.Fprintf(&sb, "- **Description**: %s\n", orNotProvided(ep.Description))
		tags := "None"
		if len(ep.Tags) > 0 {
			tags = strings.Join(ep.Tags, ", ")
		}
		fmt.Fprintf(&sb, "- **Tags**: %s\n", tags)
		fmt.Fprintf(&sb, "- **Status Code**: %d\n", ep.StatusCode)

		if len(ep.Parameters) > 0 {
			sb.WriteString("\n**Parameters**:\n")
			for _, p := range ep.Parameters {
				fmt.Fprintf(&sb, "  - `%s` (%s): %s", p.Name, p.Location, p.DeclaredType)
				if !p.Required {
					fmt.Fprintf(&sb, " [Optional, default: %s]", model.Deref(p.DefaultValue))
				}
				sb.WriteString("\n")
			}
		}
		if ep.RequestModel != nil {
			fmt.Fprintf(&sb, "\n**Request Model**: %s\n", *ep.RequestModel)
		}
		if ep.ResponseModel != nil {
			fmt.Fprintf(&sb, "**Response Model**: %s\n", *ep.ResponseModel)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func orNotProvided(s *string) string {
	if s == nil || *s == "" {
		return "Not provided"
	}
	return *s
}

func documentationPrompt(endpoints []model.EndpointInfo, projectName string) string {
	return fmt.Sprintf(`Generate comprehensive API documentation for the %q project.

Create documentation in Markdown format with the following structure:
1. Overview section with a brief description of the API
2. Base URL and authentication information (if applicable)
3. Detailed endpoint documentation organized by tags
4. For each endpoint include the HTTP method and path, its purpose, request parameters
   with types, the request body schema, response format and status codes, example
   requests and responses with realistic sample data, and error responses.

Here are the extracted endpoints:

%s
Add a realistic curl example for each endpoint.
`, projectName, DescribeEndpoints(endpoints))
}

func critiquePrompt(doc string, endpoints []model.EndpointInfo) string {
	return fmt.Sprintf(`Check the generated documentation against the actual API structure.

**Actual Code Analysis (Truth)**:
%s
**Generated Documentation**:
%s

Review the documentation for:
1. Accuracy: do all endpoints from the code appear in the docs?
2. Correctness: do parameters and types match exactly?
3. Missing info: are any required parameters marked as optional or vice versa?

If the documentation is accurate, respond with ONLY: "%s"

If there are issues, respond with:
"STATUS: FAIL"
[List of specific issues found]
`, DescribeEndpoints(endpoints), doc, StatusPass)
}

func refinePrompt(doc, critique string, endpoints []model.EndpointInfo) string {
	return fmt.Sprintf(`Fix the API documentation based on a critique.

**Actual Code Analysis**:
%s
**Current Draft**:
%s

**Critique (Issues to Fix)**:
%s

Rewrite the documentation to address every issue in the critique.
Return the COMPLETE corrected markdown.
`, DescribeEndpoints(endpoints), doc, critique)
}
