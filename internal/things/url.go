// Package things wraps the two channels to the Things app this tool
// touches: the write-only things::// URL scheme (fire-and-forget, no
// return value) and the process-spawning dispatch that delivers those
// URLs. URL construction is pure formatting; the dispatcher is the one
// place an external command actually leaves the process, so it is the
// choke point for the rate limiter.
package things

import (
	"fmt"
	"net/url"
	"sort"
)

// Commands in the things::// URL scheme used by compensations.
const (
	cmdUpdate        = "update"
	cmdUpdateProject = "update-project"
)

// UpdateParams are the parameters of an update command. Zero values are
// omitted from the URL; Things treats absent parameters as "leave alone".
type UpdateParams struct {
	AuthToken string
	ID        string
	Completed *bool
	Canceled  *bool
	// Fields carries arbitrary field writes (title, notes, when, deadline,
	// tags, ...). Values are stringified; map iteration order does not leak
	// into the URL because keys are sorted.
	Fields map[string]any
}

// BuildUpdateURL formats an update command for a to-do.
func BuildUpdateURL(p UpdateParams) string {
	return buildCommandURL(cmdUpdate, p)
}

// BuildUpdateProjectURL formats an update command for a project.
func BuildUpdateProjectURL(p UpdateParams) string {
	return buildCommandURL(cmdUpdateProject, p)
}

func buildCommandURL(command string, p UpdateParams) string {
	values := url.Values{}
	if p.AuthToken != "" {
		values.Set("auth-token", p.AuthToken)
	}
	values.Set("id", p.ID)
	if p.Completed != nil {
		values.Set("completed", boolParam(*p.Completed))
	}
	if p.Canceled != nil {
		values.Set("canceled", boolParam(*p.Canceled))
	}

	keys := make([]string, 0, len(p.Fields))
	for k := range p.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		values.Set(k, fmt.Sprint(p.Fields[k]))
	}

	return fmt.Sprintf("things:///%s?%s", command, values.Encode())
}

func boolParam(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Bool is a convenience for the optional flag fields.
func Bool(b bool) *bool { return &b }
