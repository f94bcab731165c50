// Package asadmintest provides an in-memory asadmin Runner for tests.
package asadmintest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/alexisbeaulieu97/gfctl/internal/asadmin"
	gferrors "github.com/alexisbeaulieu97/gfctl/pkg/errors"
)

// App is the simulated state of a deployed application.
type App struct {
	Enabled bool
	Path    string
}

// Server simulates a Glassfish installation. It records every invocation
// and implements asadmin.Runner.
type Server struct {
	mu sync.Mutex

	Domains    map[string]bool
	Apps       map[string]*App
	Properties map[string]string

	// Lag is the number of extra calls of a subcommand that are accepted
	// without effect before the state changes. A negative value never takes
	// effect.
	Lag map[string]int

	// Fail makes a subcommand exit non-zero with the given output.
	Fail map[string]string

	// Output overrides the stdout of a subcommand.
	Output map[string]string

	calls   [][]string
	pending map[string]int
}

var _ asadmin.Runner = (*Server)(nil)

// NewServer returns an empty simulated installation.
func NewServer() *Server {
	return &Server{
		Domains:    map[string]bool{},
		Apps:       map[string]*App{},
		Properties: map[string]string{},
		Lag:        map[string]int{},
		Fail:       map[string]string{},
		Output:     map[string]string{},
		pending:    map[string]int{},
	}
}

// Calls returns the subcommand invocations in order, without utility options.
func (s *Server) Calls() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.calls))
	copy(out, s.calls)
	return out
}

// Subcommands returns only the subcommand names in order.
func (s *Server) Subcommands() []string {
	calls := s.Calls()
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c[0])
	}
	return out
}

// Count returns how many times sub was invoked.
func (s *Server) Count(sub string) int {
	n := 0
	for _, name := range s.Subcommands() {
		if name == sub {
			n++
		}
	}
	return n
}

// Run implements asadmin.Runner.
func (s *Server) Run(_ context.Context, binary string, args ...string) (asadmin.Output, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := stripUtilityOptions(args)
	if len(sub) == 0 {
		return asadmin.Output{}, gferrors.NewExternalCommandError(binary, args, 1, "no subcommand", fmt.Errorf("exit status 1"))
	}
	s.calls = append(s.calls, sub)
	name := sub[0]

	if msg, ok := s.Fail[name]; ok {
		return asadmin.Output{Stderr: msg}, gferrors.NewExternalCommandError(binary, args, 1, msg, fmt.Errorf("exit status 1"))
	}
	if out, ok := s.Output[name]; ok {
		return asadmin.Output{Stdout: out}, nil
	}

	switch name {
	case "list-domains":
		return asadmin.Output{Stdout: s.listDomains()}, nil
	case "start-domain":
		if s.effective(name) {
			s.Domains[sub[1]] = true
		}
		return succeeded(name), nil
	case "stop-domain":
		if s.effective(name) {
			s.Domains[sub[1]] = false
		}
		return succeeded(name), nil
	case "list-applications":
		return asadmin.Output{Stdout: s.listApplications()}, nil
	case "deploy":
		if s.effective(name) {
			app := &App{Path: sub[len(sub)-1], Enabled: true}
			var appName string
			for i, a := range sub {
				if a == "--name" && i+1 < len(sub) {
					appName = sub[i+1]
				}
				if a == "--enabled=false" {
					app.Enabled = false
				}
			}
			s.Apps[appName] = app
		}
		return succeeded(name), nil
	case "undeploy":
		if s.effective(name) {
			delete(s.Apps, sub[1])
		}
		return succeeded(name), nil
	case "get":
		return s.get(binary, args, sub[1])
	case "set":
		key, value, _ := strings.Cut(sub[1], "=")
		if s.effective(name) {
			s.set(key, value)
		}
		return succeeded(name), nil
	}

	return asadmin.Output{}, gferrors.NewExternalCommandError(binary, args, 1, "unknown command "+name, fmt.Errorf("exit status 1"))
}

func (s *Server) effective(name string) bool {
	lag, ok := s.Lag[name]
	if !ok {
		return true
	}
	if lag < 0 {
		return false
	}
	s.pending[name]++
	return s.pending[name] > lag
}

func (s *Server) listDomains() string {
	names := make([]string, 0, len(s.Domains))
	for name := range s.Domains {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		if s.Domains[name] {
			fmt.Fprintf(&b, "%s running\n", name)
		} else {
			fmt.Fprintf(&b, "%s not running\n", name)
		}
	}
	b.WriteString("Command list-domains executed successfully.\n")
	return b.String()
}

func (s *Server) listApplications() string {
	if len(s.Apps) == 0 {
		return "Nothing to list.\nCommand list-applications executed successfully.\n"
	}
	names := make([]string, 0, len(s.Apps))
	for name := range s.Apps {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s  <web>\n", name)
	}
	b.WriteString("Command list-applications executed successfully.\n")
	return b.String()
}

func (s *Server) get(binary string, args []string, key string) (asadmin.Output, error) {
	if app, field, ok := appRefKey(key); ok {
		a, exists := s.Apps[app]
		if !exists || field != "enabled" {
			msg := "No configuration found for " + key
			return asadmin.Output{Stderr: msg}, gferrors.NewExternalCommandError(binary, args, 1, msg, fmt.Errorf("exit status 1"))
		}
		return asadmin.Output{Stdout: fmt.Sprintf("%s=%t\nCommand get executed successfully.\n", key, a.Enabled)}, nil
	}
	value, exists := s.Properties[key]
	if !exists {
		msg := "No configuration found for " + key
		return asadmin.Output{Stderr: msg}, gferrors.NewExternalCommandError(binary, args, 1, msg, fmt.Errorf("exit status 1"))
	}
	return asadmin.Output{Stdout: fmt.Sprintf("%s=%s\nCommand get executed successfully.\n", key, value)}, nil
}

func (s *Server) set(key, value string) {
	if app, field, ok := appRefKey(key); ok {
		if a, exists := s.Apps[app]; exists && field == "enabled" {
			a.Enabled = value == "true"
		}
		return
	}
	s.Properties[key] = value
}

// appRefKey splits servers.server.<target>.application-ref.<app>.<field>.
func appRefKey(key string) (app, field string, ok bool) {
	const marker = ".application-ref."
	idx := strings.Index(key, marker)
	if !strings.HasPrefix(key, "servers.server.") || idx < 0 {
		return "", "", false
	}
	rest := key[idx+len(marker):]
	dot := strings.LastIndex(rest, ".")
	if dot < 0 {
		return "", "", false
	}
	return rest[:dot], rest[dot+1:], true
}

func succeeded(name string) asadmin.Output {
	return asadmin.Output{Stdout: fmt.Sprintf("Command %s executed successfully.", name)}
}

// stripUtilityOptions drops leading asadmin utility options such as
// "--port 4848" or "--user admin".
func stripUtilityOptions(args []string) []string {
	i := 0
	for i < len(args) && strings.HasPrefix(args[i], "-") {
		if !strings.Contains(args[i], "=") && i+1 < len(args) {
			i += 2
			continue
		}
		i++
	}
	return args[i:]
}
