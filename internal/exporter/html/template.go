package html

// APIReportTemplate is a Redoc-style single page grouped by tag
const APIReportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font: 15px/1.55 system-ui, -apple-system, 'Segoe UI', sans-serif; background: #f3f4f6; color: #1f2937; }
        code, .endpoint-path, .param-name, .param-type, .diagnostic { font-family: ui-monospace, Menlo, Consolas, monospace; }

        .container { max-width: 1100px; margin: 0 auto; padding: 24px 16px; }
        header { background: #0f766e; color: #fff; padding: 32px 24px; border-radius: 6px; margin-bottom: 24px; }
        header h1 { font-size: 2.1em; }
        header p { opacity: .85; }

        .summary, .endpoint { background: #fff; border: 1px solid #e5e7eb; border-radius: 6px; margin-bottom: 18px; }
        .summary { padding: 18px 20px; }
        .summary h2, .tag-title { color: #0f766e; }
        .tag-title { font-size: 1.35em; margin: 28px 0 12px; }
        .stats { display: flex; flex-wrap: wrap; gap: 12px; margin: 12px 0; }
        .stat-card { flex: 1 1 160px; padding: 12px 14px; background: #f9fafb; border-top: 3px solid #14b8a6; }
        .stat-card .label { font-size: .85em; color: #6b7280; }
        .stat-card .value { font-size: 1.7em; font-weight: 700; }
        .toc a { color: #0f766e; margin-right: 14px; text-decoration: none; }

        .endpoint-header { padding: 14px 18px; background: #f9fafb; border-bottom: 1px solid #e5e7eb; }
        .endpoint-title { display: flex; align-items: center; gap: 12px; }
        .endpoint-path { font-size: 1.15em; font-weight: 600; }
        .endpoint-meta, .endpoint-description { color: #6b7280; font-size: .9em; margin-top: 4px; }
        .endpoint-description { white-space: pre-wrap; }
        .endpoint-summary { margin-top: 8px; }
        .endpoint-body { padding: 14px 18px; }
        .section-title { font-weight: 600; margin: 6px 0 8px; border-bottom: 1px solid #e5e7eb; }

        .method-badge { min-width: 64px; text-align: center; padding: 3px 10px; border-radius: 3px; color: #fff; font-weight: 700; font-size: .8em; }
        .method-get { background: #2563eb; }
        .method-post { background: #16a34a; }
        .method-put { background: #d97706; }
        .method-patch { background: #0891b2; }
        .method-delete { background: #dc2626; }
        .method-default { background: #6b7280; }

        table { width: 100%; border-collapse: collapse; margin-bottom: 14px; }
        th, td { text-align: left; padding: 8px 10px; border-bottom: 1px solid #e5e7eb; }
        th { background: #f9fafb; font-weight: 600; }
        .param-name { color: #0f766e; font-weight: 600; }
        .param-type { color: #9d174d; }
        .param-in { padding: 1px 7px; background: #ecfeff; color: #0e7490; border-radius: 3px; font-size: .85em; }
        .required-badge, .optional-badge { padding: 1px 6px; border-radius: 3px; color: #fff; font-size: .75em; }
        .required-badge { background: #dc2626; }
        .optional-badge { background: #9ca3af; }
        .response-success { color: #16a34a; font-weight: 600; }

        .diagnostic { color: #b91c1c; font-size: .9em; }
        .no-endpoints, footer { text-align: center; color: #6b7280; padding: 40px 16px; }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>{{.Title}}</h1>
            <p>{{.Convention}} project{{if .AnalyzedAt}} · analyzed {{.AnalyzedAt}}{{end}}</p>
        </header>

        <div class="summary">
            <h2>Overview</h2>
            <div class="stats">
                <div class="stat-card">
                    <div class="label">Endpoints</div>
                    <div class="value">{{.TotalEndpoints}}</div>
                </div>
                <div class="stat-card">
                    <div class="label">Tags</div>
                    <div class="value">{{len .Groups}}</div>
                </div>
                <div class="stat-card">
                    <div class="label">Models</div>
                    <div class="value">{{.TotalModels}}</div>
                </div>
            </div>
            {{if .Groups}}
            <p class="toc">{{range .Groups}}<a href="#{{.Anchor}}">{{.Tag}}</a>{{end}}</p>
            {{end}}
        </div>

        {{range .Groups}}
        <h2 class="tag-title" id="{{.Anchor}}">{{.Tag}}</h2>
            {{range .Endpoints}}
            <div class="endpoint">
                <div class="endpoint-header">
                    <div class="endpoint-title">
                        <span class="method-badge {{methodColor .Method}}">{{.Method}}</span>
                        <span class="endpoint-path">{{.Path}}</span>
                    </div>
                    <div class="endpoint-meta">
                        Handler: <strong>{{.Handler}}</strong> · {{.Source}}
                    </div>
                    {{if .Summary}}
                    <div class="endpoint-summary">{{.Summary}}</div>
                    {{end}}
                    {{if .Description}}
                    <div class="endpoint-description">{{.Description}}</div>
                    {{end}}
                </div>

                <div class="endpoint-body">
                    {{if .Params}}
                    <div class="section-title">Parameters</div>
                    <table>
                        <thead>
                            <tr>
                                <th>Name</th>
                                <th>Type</th>
                                <th>In</th>
                                <th>Required</th>
                                <th>Default</th>
                            </tr>
                        </thead>
                        <tbody>
                            {{range .Params}}
                            <tr>
                                <td class="param-name">{{.Name}}</td>
                                <td class="param-type">{{.DeclaredType}}</td>
                                <td><span class="param-in">{{.Location}}</span></td>
                                <td>
                                    {{if .Required}}
                                    <span class="required-badge">REQUIRED</span>
                                    {{else}}
                                    <span class="optional-badge">Optional</span>
                                    {{end}}
                                </td>
                                <td class="param-type">{{deref .DefaultValue}}</td>
                            </tr>
                            {{end}}
                        </tbody>
                    </table>
                    {{end}}

                    {{if .Request}}
                    <div class="section-title">Request Body</div>
                    <p class="param-type">{{.Request}}</p>
                    {{end}}

                    <div class="section-title">Response</div>
                    <table>
                        <thead>
                            <tr>
                                <th>Status Code</th>
                                <th>Model</th>
                            </tr>
                        </thead>
                        <tbody>
                            <tr>
                                <td class="response-success">{{.StatusCode}}</td>
                                <td class="param-type">{{if .Response}}{{.Response}}{{else}}-{{end}}</td>
                            </tr>
                        </tbody>
                    </table>
                </div>
            </div>
            {{end}}
        {{else}}
            <div class="no-endpoints">
                <h3>No API endpoints found</h3>
                <p>Check the detected convention and the exclude patterns.</p>
            </div>
        {{end}}

        {{if .Models}}
        <h2 class="tag-title">Models</h2>
        {{range .Models}}
        <div class="endpoint">
            <div class="endpoint-header">
                <span class="endpoint-path">{{.Name}}</span>
                <div class="endpoint-meta">{{.File}}</div>
            </div>
            <div class="endpoint-body">
                <table>
                    <thead><tr><th>Field</th><th>Type</th></tr></thead>
                    <tbody>
                        {{range .Fields}}
                        <tr><td class="param-name">{{.Name}}</td><td class="param-type">{{.Type}}</td></tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
        </div>
        {{end}}
        {{end}}

        {{if .Diagnostics}}
        <div class="summary">
            <h2>Diagnostics</h2>
            {{range .Diagnostics}}
            <p class="diagnostic">{{.String}}</p>
            {{end}}
        </div>
        {{end}}

        <footer>
            Generated by <strong>Route Recon</strong> from a static read of the source tree
        </footer>
    </div>
</body>
</html>
`
