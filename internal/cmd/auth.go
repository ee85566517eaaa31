package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/Vijay-1289/opportune/internal/credential"
)

type AuthCmd struct {
	SetToken        SetTokenCmd        `cmd:"" name:"set-token" help:"Store a Gmail OAuth access token in the keyring."`
	SetIMAPPassword SetIMAPPasswordCmd `cmd:"" name:"set-imap-password" help:"Store the IMAP password in the keyring."`
	Status          AuthStatusCmd      `cmd:"" help:"Show which credentials are available and where they come from."`
	Clear           AuthClearCmd       `cmd:"" help:"Remove stored credentials from the keyring."`
}

type SetTokenCmd struct {
	Token string `arg:"" help:"Access token."`
}

type SetIMAPPasswordCmd struct {
	Password string `arg:"" help:"IMAP password or app password."`
}

type AuthStatusCmd struct{}

type AuthClearCmd struct{}

// CredentialStatus describes one credential without revealing it.
type CredentialStatus struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
	Origin     string `json:"origin,omitempty"`
	Error      string `json:"error,omitempty"`
}

func (c *SetTokenCmd) Run(ctx *Context) error {
	return storeCredential(ctx, credential.KeyToken, c.Token)
}

func (c *SetIMAPPasswordCmd) Run(ctx *Context) error {
	return storeCredential(ctx, credential.KeyIMAPPassword, c.Password)
}

func storeCredential(ctx *Context, key, value string) error {
	if ctx.Credentials == nil {
		return fmt.Errorf("no keyring backend available")
	}
	if err := ctx.Credentials.Set(key, value); err != nil {
		return err
	}
	ctx.UI.Successf("Stored %s", key)
	return nil
}

func (c *AuthStatusCmd) Run(ctx *Context) error {
	statuses := []CredentialStatus{
		credentialStatus(credential.KeyToken, func() (string, credential.Origin, error) {
			return ctx.Credentials.Token("")
		}),
		credentialStatus(credential.KeyIMAPPassword, func() (string, credential.Origin, error) {
			return ctx.Credentials.IMAPPassword("")
		}),
	}

	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	}

	if ctx.PlainText {
		for _, status := range statuses {
			line := []string{status.Name, fmt.Sprintf("%t", status.Configured), status.Origin, status.Error}
			fmt.Fprintln(ctx.Out, strings.Join(line, "\t"))
		}
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "credential\tconfigured\torigin\terror")
	for _, status := range statuses {
		fmt.Fprintf(tw, "%s\t%t\t%s\t%s\n", status.Name, status.Configured, status.Origin, status.Error)
	}
	return tw.Flush()
}

func credentialStatus(name string, resolve func() (string, credential.Origin, error)) CredentialStatus {
	status := CredentialStatus{Name: name}
	_, origin, err := resolve()
	switch {
	case err == nil:
		status.Configured = true
		status.Origin = string(origin)
	case isMissingCredential(err):
	default:
		status.Error = err.Error()
	}
	return status
}

func (c *AuthClearCmd) Run(ctx *Context) error {
	if ctx.Credentials == nil {
		return fmt.Errorf("no keyring backend available")
	}
	for _, key := range []string{credential.KeyToken, credential.KeyIMAPPassword} {
		if err := ctx.Credentials.Delete(key); err != nil {
			return err
		}
	}
	ctx.UI.Successf("Cleared stored credentials")
	return nil
}
