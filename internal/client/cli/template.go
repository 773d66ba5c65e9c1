package cli

import (
	"strconv"
	"text/template"
	"time"
)

var templates = template.Must(template.New("cli").Funcs(template.FuncMap{
	"stamp": func(t time.Time) string {
		if t.IsZero() {
			return "never"
		}
		return t.Local().Format("2006-01-02 15:04:05")
	},
	"km":    func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
	"inc":   func(i int) int { return i + 1 },
	"yesno": func(b bool) string { return map[bool]string{true: "yes", false: "no"}[b] },
}).Parse(layouts))

const layouts = `
{{- define "address"}}
ID:         {{.ID}}
Department: {{.Department}}
Commune:    {{.Commune}}
{{- with .Ward}}
Ward:       {{.}}
{{- end}}
{{- with .District}}
District:   {{.}}
{{- end}}
{{- with .Label}}
Label:      {{.}}
{{- end}}
{{- with .Location}}
Location:   {{.Lat}}, {{.Lng}}
{{- end}}
Active:     {{yesno .IsActive}}
Version:    {{.Version}}{{if eq .Version 0}} (not synced yet){{end}}
Updated:    {{stamp .UpdatedAt}}
{{end}}

{{- define "addresses"}}
{{- if not .}}No addresses found.
{{else}}
{{- range $i, $a := .}}{{inc $i}}. {{$a.Commune}}, {{$a.Department}}{{with $a.District}} ({{.}}){{end}}{{if not $a.IsActive}} [inactive]{{end}}
   ID: {{$a.ID}}
{{end}}
{{- end}}
{{- end}}

{{- define "nearby"}}
{{- if not .}}No addresses in range.
{{else}}
{{- range .}}{{km .DistanceKm}} km  {{.Record.Commune}}, {{.Record.Department}}{{with .Record.Label}} - {{.}}{{end}}
   ID: {{.Record.ID}}
{{end}}
{{- end}}
{{- end}}

{{- define "stats"}}Total:    {{.Total}}
Active:   {{.Active}}
Inactive: {{.Inactive}}
{{- with .Amount}}
Amount:   {{.String}}
{{- end}}
{{range $field, $counts := .ByCategory}}
By {{$field}}:
{{range $value, $n := $counts}}  {{$value}}: {{$n}}
{{end}}
{{- end}}
{{- end}}

{{- define "order"}}
ID:      {{.ID}}
Type:    {{.Type}}
Status:  {{.Status}}
Client:  {{.Client.Name}}{{with .Client.Phone}} ({{.}}){{end}}
Items:
{{- range .Items}}
  {{.Quantity}} x {{.Name}} @ {{.UnitPrice.String}}
{{- end}}
Total:   {{.Total.String}}
Payment: {{.Payment.Status}}{{with .Payment.Method}} ({{.}}){{end}}
{{- with .Delivery}}
Address: {{.AddressID}}
{{- end}}
{{- with .Notes}}
Notes:   {{.}}
{{- end}}
Active:  {{yesno .IsActive}}
Version: {{.Version}}{{if eq .Version 0}} (not synced yet){{end}}
Updated: {{stamp .UpdatedAt}}
{{end}}

{{- define "orders"}}
{{- if not .}}No orders found.
{{else}}
{{- range $i, $o := .}}{{inc $i}}. [{{$o.Status}}] {{$o.Type}} for {{$o.Client.Name}}, total {{$o.Total.String}}{{if not $o.IsActive}} [inactive]{{end}}
   ID: {{$o.ID}}
{{end}}
{{- end}}
{{- end}}

{{- define "deleted"}}✓ Deleted {{.}}
{{end}}

{{- define "push"}}Pushed:  {{.Processed}}
Failed:  {{.Failed}}
{{- if .Skipped}}
Skipped: {{.Skipped}}
{{- end}}
{{end}}

{{- define "pulls"}}
{{- range .}}Pulled {{.Count}} {{.Table}}{{if .Removed}}, removed {{.Removed}}{{end}}
{{end}}
{{- end}}

{{- define "full"}}{{template "push" .Push}}{{template "pulls" .Pulls}}{{end}}

{{- define "status"}}Online:     {{yesno .Online}}
Listening:  {{yesno .Listening}}
Last pull:  {{stamp .LastPull}}
Last push:  {{stamp .LastPush}}
Pending:    {{.Pending}}
Failed:     {{.Failed}}{{if .Conflicts}} ({{.Conflicts}} conflicts){{end}}
{{- with .LastError}}
Last error: {{.}}
{{- end}}
{{end}}

{{- define "queue"}}
{{- if not .}}Queue is empty.
{{else}}
{{- range .}}{{.ID}}  {{.Status}}  {{.OperationType}} {{.Table}}/{{.EntityID}}{{if .Attempts}}  attempts={{.Attempts}}{{end}}{{if .Conflict}}  CONFLICT{{end}}
{{- with .LastError}}
    {{.}}
{{- end}}
{{end}}
{{- end}}
{{- end}}

{{- define "entry"}}✓ Entry {{.ID}} is {{.Status}} again
{{end}}

{{- define "session"}}Username: {{.Username}}
User ID:  {{.UserID}}
Expires:  {{stamp .ExpiresAt}}
{{end}}

{{- define "registered"}}✓ Registered, user id {{.}}
{{end}}

{{- define "loggedout"}}✓ Logged out
{{end}}`
