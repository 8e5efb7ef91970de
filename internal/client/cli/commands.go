package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/securepass/internal/client/models"
	"github.com/dmitrijs2005/securepass/internal/common"
)

func (a *App) show(msg string) {
	a.message = msg
	if msg != "" {
		printlnFn(msg)
	}
}

func formatPass(p models.Pass) string {
	lock := " "
	if p.RequiresBiometric {
		lock = "*"
	}
	return fmt.Sprintf("%s %-8s %-16s %s\n    id: %s", lock, p.Kind.Label(), p.Title, p.Detail, p.ID)
}

// Enroll registers the device passcode used to unlock the vault.
func (a *App) Enroll(ctx context.Context) error {
	if a.enroller == nil {
		a.show("Passcode verifier is disabled.")
		return common.ErrAuthUnavailable
	}

	first, err := GetPasscode(a.out, "New passcode")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(first)
	second, err := GetPasscode(a.out, "Repeat passcode")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(second)

	if !bytes.Equal(first, second) {
		a.show("Passcodes do not match.")
		return errors.New("passcode mismatch")
	}
	if err := a.enroller.Enroll(ctx, first); err != nil {
		a.log.Error(ctx, "enroll failed", "error", err)
		a.show("Error: " + err.Error())
		return err
	}
	a.show("Passcode enrolled.")
	return nil
}

func (a *App) Unlock(ctx context.Context) error {
	res := a.passes.Unlock(ctx)
	a.waitPrompt()
	if res.Passes != nil {
		a.unlocked = true
	}
	if res.Err != nil {
		a.show(res.Message)
		if res.Passes == nil {
			return res.Err
		}
	}
	a.show(fmt.Sprintf("Vault unlocked, %d passes.", len(res.Passes)))
	return nil
}

func (a *App) List(ctx context.Context) error {
	if !a.unlocked {
		a.show("Vault is locked, run 'unlock' first.")
		return common.ErrVaultLocked
	}
	passes := a.passes.Passes()
	if len(passes) == 0 {
		a.show("No passes.")
		return nil
	}
	for _, p := range passes {
		printlnFn(formatPass(p))
	}
	return nil
}

func (a *App) Add(ctx context.Context, args []string) error {
	code := strings.Join(args, " ")
	if strings.TrimSpace(code) == "" {
		printlnFn("Usage: add <code>")
		return nil
	}
	p, err := a.passes.Add(ctx, code)
	if err != nil {
		a.show("Error: " + err.Error())
		return err
	}
	if p == nil {
		return nil
	}
	a.show(fmt.Sprintf("Added %s pass %s.", p.Kind.Label(), p.ID))
	return nil
}

func (a *App) Open(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: open <id>")
		return nil
	}
	res := a.passes.Open(ctx, args[0])
	a.waitPrompt()
	if res.Pass == nil {
		a.show(res.Message)
		return res.Err
	}
	printlnFn(formatPass(*res.Pass))
	printlnFn("    code: " + res.Pass.Code)
	return nil
}

func (a *App) Toggle(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: toggle <id>")
		return nil
	}
	p, err := a.passes.ToggleProtection(ctx, args[0])
	if err != nil {
		a.show("Error: " + err.Error())
		return err
	}
	state := "off"
	if p.RequiresBiometric {
		state = "on"
	}
	a.show(fmt.Sprintf("Protection %s for %s.", state, p.Title))
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: remove <id>")
		return nil
	}
	if err := a.passes.Remove(ctx, args[0]); err != nil {
		a.show("Error: " + err.Error())
		return err
	}
	a.show("Removed.")
	return nil
}

func (a *App) Lock(ctx context.Context) error {
	a.passes.Lock()
	a.unlocked = false
	a.show("Vault locked.")
	return nil
}
