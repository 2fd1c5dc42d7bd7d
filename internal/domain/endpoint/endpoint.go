// Where: deploy/internal/domain/endpoint/endpoint.go
// What: Service URL resolution and derived endpoint rendering.
// Why: Turn `gcloud run services list` CSV output into env vars for a dependent service.
package endpoint

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/fishgills/mud/deploy/internal/config"
)

// Value is a rendered endpoint variable.
type Value struct {
	Name   string
	Value  string
	Update bool
}

var templateCache sync.Map

// FindURL returns the URL of the first `SERVICE,URL` line whose service
// column equals service, or "" when no line matches.
func FindURL(csv, service string) string {
	prefix := service + ","
	for _, line := range strings.Split(csv, "\n") {
		line = strings.TrimRight(line, "\r")
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		fields := strings.Split(line, ",")
		return strings.TrimSpace(fields[1])
	}
	return ""
}

// ResolveSources maps each source key to the URL of its Cloud Run service.
// Keys whose service has no URL in csv are returned sorted in missing.
func ResolveSources(csv string, sources map[string]string) (map[string]string, []string) {
	urls := make(map[string]string, len(sources))
	var missing []string
	for key, service := range sources {
		url := FindURL(csv, service)
		if url == "" {
			missing = append(missing, key)
			continue
		}
		urls[key] = url
	}
	sort.Strings(missing)
	return urls, missing
}

// Render evaluates every variable template against the resolved URLs.
// Templates see the URLs keyed by source name and the sprig function set.
func Render(vars []config.EndpointVar, urls map[string]string) ([]Value, error) {
	values := make([]Value, 0, len(vars))
	for _, v := range vars {
		tmpl, err := loadTemplate(v.Template)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint %s: %w", v.Name, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, urls); err != nil {
			return nil, fmt.Errorf("render endpoint %s: %w", v.Name, err)
		}
		values = append(values, Value{Name: v.Name, Value: buf.String(), Update: v.Update})
	}
	return values, nil
}

// UpdateEnvVars joins the values flagged for update as NAME=VALUE pairs.
func UpdateEnvVars(values []Value) string {
	pairs := make([]string, 0, len(values))
	for _, v := range values {
		if v.Update {
			pairs = append(pairs, v.Name+"="+v.Value)
		}
	}
	return strings.Join(pairs, ",")
}

func loadTemplate(text string) (*template.Template, error) {
	if cached, ok := templateCache.Load(text); ok {
		if tmpl, ok := cached.(*template.Template); ok {
			return tmpl, nil
		}
	}
	tmpl, err := template.New("endpoint").
		Option("missingkey=error").
		Funcs(sprig.TxtFuncMap()).
		Parse(text)
	if err != nil {
		return nil, err
	}
	templateCache.Store(text, tmpl)
	return tmpl, nil
}
