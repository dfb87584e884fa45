package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/nodevault/internal/client/models"
	"github.com/dmitrijs2005/nodevault/internal/common"
)

// getSimpleText and getMultiline are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getMultiline  = GetMultiline
)

// AddWallet prompts for the wallet fields and stores the wallet. The private
// key is read without echo.
func (a *App) AddWallet(ctx context.Context) error {
	var w models.Wallet
	var err error

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Name", &w.Name},
		{"Address", &w.Address},
		{"Network", &w.Network},
		{"Type [" + models.DefaultWalletType + "]", &w.Type},
		{"Balance [" + models.DefaultBalance + "]", &w.Balance},
	}
	for _, f := range fields {
		if *f.dst, err = getSimpleText(a.reader, f.prompt, a.out); err != nil {
			return err
		}
	}

	pk, err := getPassword(a.out, "Private key (hidden, empty for none): ")
	if err != nil {
		return err
	}
	w.PrivateKey = string(pk)
	common.WipeByteArray(pk)

	if w.Notes, err = getMultiline(a.reader, "Notes", a.out); err != nil {
		return err
	}

	added, err := a.wallets.Add(ctx, w)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Wallet added: %s\n", added.ID)
	return nil
}

// List prints all wallets without their private keys.
func (a *App) List(ctx context.Context) error {
	items, err := a.wallets.List(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No wallets yet.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tADDRESS\tNETWORK\tTYPE\tBALANCE\t")
	for _, w := range items {
		name := w.Name
		if w.Unreadable {
			name += " (unreadable)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n", w.ID, name, w.Address, w.Network, w.Type, w.Balance)
	}
	return tw.Flush()
}

// Show prints one wallet including its decrypted private key. Without id the
// user is asked for one.
func (a *App) Show(ctx context.Context, id string) error {
	id, err := a.askID(id, "Wallet id to show")
	if err != nil {
		return err
	}

	w, err := a.wallets.Get(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Name:        %s\n", w.Name)
	fmt.Fprintf(a.out, "Address:     %s\n", w.Address)
	fmt.Fprintf(a.out, "Network:     %s\n", w.Network)
	fmt.Fprintf(a.out, "Type:        %s\n", w.Type)
	fmt.Fprintf(a.out, "Balance:     %s\n", w.Balance)
	fmt.Fprintf(a.out, "Private key: %s\n", w.PrivateKey)
	fmt.Fprintf(a.out, "Created:     %s\n", w.CreatedAt.Local().Format("2006-01-02 15:04"))
	if w.Notes != "" {
		fmt.Fprintf(a.out, "Notes:\n%s\n", w.Notes)
	}
	return nil
}

// Delete removes a wallet after a y/N confirmation.
func (a *App) Delete(ctx context.Context, id string) error {
	id, err := a.askID(id, "Wallet id to delete")
	if err != nil {
		return err
	}

	answer, err := getSimpleText(a.reader, "Delete wallet "+id+"? [y/N]", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	if err := a.wallets.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted.")
	return nil
}

func (a *App) askID(id, prompt string) (string, error) {
	if id != "" {
		return id, nil
	}
	id, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", &common.ValidationError{Field: "id", Reason: "is required"}
	}
	return id, nil
}

// describe turns service errors into messages for the terminal.
func describe(err error) string {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Field + " " + ve.Reason
	case errors.Is(err, common.ErrorNotFound):
		return "no such wallet"
	case errors.Is(err, common.ErrDecryption):
		return "private key cannot be decrypted with this master password"
	default:
		return err.Error()
	}
}
