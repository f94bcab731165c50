// Package asadmin drives the Glassfish asadmin utility as a structured
// subprocess and interprets its text output.
package asadmin

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/alexisbeaulieu97/gfctl/internal/logger"
	gferrors "github.com/alexisbeaulieu97/gfctl/pkg/errors"
)

// DefaultPort is the Glassfish admin listener port.
const DefaultPort = "4848"

// Client issues asadmin subcommands. Domain subcommands are local and never
// carry the admin port; application subcommands do.
type Client struct {
	binary     string
	globalArgs []string
	port       string
	runner     Runner
	parser     Parser
	log        *logger.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithRunner replaces the subprocess runner.
func WithRunner(r Runner) Option {
	return func(c *Client) { c.runner = r }
}

// WithParser replaces the output parser.
func WithParser(p Parser) Option {
	return func(c *Client) { c.parser = p }
}

// WithPort sets the admin port used by remote subcommands.
func WithPort(port string) Option {
	return func(c *Client) { c.port = port }
}

// WithGlobalArgs prepends asadmin utility options such as --user.
func WithGlobalArgs(args []string) Option {
	return func(c *Client) { c.globalArgs = append([]string(nil), args...) }
}

// WithLogger sets the logger used for command tracing.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a client for the asadmin binary at path.
func NewClient(binary string, opts ...Option) *Client {
	c := &Client{
		binary: binary,
		runner: ExecRunner{},
		parser: TextParser{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SplitArgs splits a configured option string into an argument list using
// shell word rules, without invoking a shell.
func SplitArgs(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	args, err := shellwords.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("split asadmin arguments: %w", err)
	}
	return args, nil
}

// Binary returns the configured binary path.
func (c *Client) Binary() string {
	return c.binary
}

// Port returns the admin port used by remote subcommands.
func (c *Client) Port() string {
	if c.port == "" {
		return DefaultPort
	}
	return c.port
}

// CheckBinary verifies the binary exists and is not a directory.
func (c *Client) CheckBinary() error {
	info, err := os.Stat(c.binary)
	if err != nil {
		return gferrors.NewPreconditionError(c.binary, "asadmin binary does not exist", err)
	}
	if info.IsDir() {
		return gferrors.NewPreconditionError(c.binary, "asadmin binary is a directory", nil)
	}
	return nil
}

// DomainRunning runs list-domains and reports whether domain is running.
func (c *Client) DomainRunning(ctx context.Context, domain string) (bool, string, error) {
	args := c.args(false, "list-domains")
	out, err := c.run(ctx, args)
	if err != nil {
		return false, "", err
	}
	running, line, perr := c.parser.DomainRunning(out.Stdout, domain)
	if perr != nil {
		return false, "", gferrors.NewUnexpectedOutputError(c.binary, args, out.Combined(), perr.Error())
	}
	return running, line, nil
}

// StartDomain runs start-domain.
func (c *Client) StartDomain(ctx context.Context, domain string) error {
	_, err := c.run(ctx, c.args(false, "start-domain", domain))
	return err
}

// StopDomain runs stop-domain.
func (c *Client) StopDomain(ctx context.Context, domain string) error {
	_, err := c.run(ctx, c.args(false, "stop-domain", domain))
	return err
}

// ApplicationDeployed runs list-applications and reports whether name is listed.
func (c *Client) ApplicationDeployed(ctx context.Context, name string) (bool, string, error) {
	args := c.args(true, "list-applications")
	out, err := c.run(ctx, args)
	if err != nil {
		return false, "", err
	}
	deployed, line, perr := c.parser.ApplicationDeployed(out.Stdout, name)
	if perr != nil {
		return false, "", gferrors.NewUnexpectedOutputError(c.binary, args, out.Combined(), perr.Error())
	}
	return deployed, line, nil
}

// DeployOptions describes a deploy invocation.
type DeployOptions struct {
	Name           string
	Path           string
	VirtualServers string
	Enabled        bool
}

// Deploy runs deploy with verification and JSP precompilation.
func (c *Client) Deploy(ctx context.Context, opts DeployOptions) error {
	args := []string{
		"deploy",
		"--verify=true",
		"--precompilejsp=true",
		"--name", opts.Name,
		"--enabled=" + strconv.FormatBool(opts.Enabled),
	}
	if opts.VirtualServers != "" {
		args = append(args, "--virtualservers", opts.VirtualServers)
	}
	args = append(args, opts.Path)
	_, err := c.run(ctx, c.args(true, args...))
	return err
}

// Undeploy runs undeploy.
func (c *Client) Undeploy(ctx context.Context, name string) error {
	_, err := c.run(ctx, c.args(true, "undeploy", name))
	return err
}

// Get returns the value of a dotted configuration key.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	args := c.args(true, "get", key)
	out, err := c.run(ctx, args)
	if err != nil {
		return "", err
	}
	value, perr := c.parser.Property(out.Stdout, key)
	if perr != nil {
		return "", gferrors.NewUnexpectedOutputError(c.binary, args, out.Combined(), perr.Error())
	}
	return value, nil
}

// Set assigns a dotted configuration key.
func (c *Client) Set(ctx context.Context, key, value string) error {
	_, err := c.run(ctx, c.args(true, "set", key+"="+value))
	return err
}

// ApplicationEnabled reads the application-ref enabled flag on target.
func (c *Client) ApplicationEnabled(ctx context.Context, target, name string) (bool, error) {
	key := EnabledKey(target, name)
	value, err := c.Get(ctx, key)
	if err != nil {
		return false, err
	}
	enabled, perr := ParseBool(value)
	if perr != nil {
		return false, gferrors.NewUnexpectedOutputError(c.binary, c.args(true, "get", key), value, perr.Error())
	}
	return enabled, nil
}

// SetApplicationEnabled writes the application-ref enabled flag on target.
func (c *Client) SetApplicationEnabled(ctx context.Context, target, name string, enabled bool) error {
	return c.Set(ctx, EnabledKey(target, name), strconv.FormatBool(enabled))
}

// DefaultWebModule reads the default web module of a virtual server.
func (c *Client) DefaultWebModule(ctx context.Context, server string) (string, error) {
	return c.Get(ctx, DefaultWebModuleKey(server))
}

// SetDefaultWebModule sets the default web module of a virtual server.
func (c *Client) SetDefaultWebModule(ctx context.Context, server, module string) error {
	return c.Set(ctx, DefaultWebModuleKey(server), module)
}

// EnabledKey is the dotted name of an application reference's enabled flag.
func EnabledKey(target, name string) string {
	return "servers.server." + target + ".application-ref." + name + ".enabled"
}

// DefaultWebModuleKey is the dotted name of a virtual server's default web module.
func DefaultWebModuleKey(server string) string {
	return "configs.config.server-config.http-service.virtual-server." + server + ".default-web-module"
}

func (c *Client) args(remote bool, sub ...string) []string {
	args := make([]string, 0, len(c.globalArgs)+len(sub)+2)
	args = append(args, c.globalArgs...)
	if remote {
		args = append(args, "--port", c.Port())
	}
	return append(args, sub...)
}

func (c *Client) run(ctx context.Context, args []string) (Output, error) {
	c.log.With("args", args).Debug("running asadmin")
	out, err := c.runner.Run(ctx, c.binary, args...)
	if err != nil {
		c.log.With("args", args).Error(err, "asadmin failed")
	}
	return out, err
}
