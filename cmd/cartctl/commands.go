package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/nikolayk812/drinksip-cart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "cartctl",
		Short:         "Inspect and edit a persisted DrinkSip cart",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "cartctl.yaml", "path to the YAML config file")

	root.AddCommand(
		newShowCmd(opts),
		newAddCmd(opts),
		newUpdateCmd(opts),
		newRemoveCmd(opts),
		newClearCmd(opts),
	)

	return root
}

// withApp opens the configured store for the duration of one command.
func withApp(opts *rootOptions, fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd.Context(), opts.configPath)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := a.Close(); closeErr != nil {
				err = errors.Join(err, fmt.Errorf("app.Close: %w", closeErr))
			}
		}()

		return fn(cmd, args, a)
	}
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the cart with its totals",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, _ []string, a *app) error {
			return printCart(cmd.OutOrStdout(), a)
		}),
	}
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var (
		variant domain.ProductVariant
		price   string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add one pack of a product variant",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, _ []string, a *app) error {
			amount, err := decimal.NewFromString(price)
			if err != nil {
				return fmt.Errorf("price[%s] is not valid: %w", price, err)
			}
			unit, err := a.cfg.CurrencyUnit()
			if err != nil {
				return err
			}
			variant.Price = domain.Money{Amount: amount, Currency: unit}

			if _, err := a.store.AddItem(cmd.Context(), variant); err != nil {
				return fmt.Errorf("store.AddItem: %w", err)
			}

			return printCart(cmd.OutOrStdout(), a)
		}),
	}

	flags := cmd.Flags()
	flags.StringVar(&variant.VariantID, "variant", "", "product variant id")
	flags.StringVar(&variant.Handle, "handle", "", "product handle")
	flags.StringVar(&variant.Title, "title", "", "product title")
	flags.StringVar(&variant.Image, "image", "", "product image URL")
	flags.StringVar(&variant.Color, "color", "", "accent color")
	flags.StringVar(&price, "price", "0", "unit price")
	_ = cmd.MarkFlagRequired("variant")

	return cmd
}

func newUpdateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update <line-id> <quantity>",
		Short: "Set a line's quantity; zero or less removes it",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity[%s] is not an integer: %w", args[1], err)
			}

			if !a.store.UpdateQuantity(cmd.Context(), args[0], quantity) {
				a.logger.Info("line not found", zap.String("line_id", args[0]))
			}

			return printCart(cmd.OutOrStdout(), a)
		}),
	}
}

func newRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <line-id>",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			if !a.store.RemoveItem(cmd.Context(), args[0]) {
				a.logger.Info("line not found", zap.String("line_id", args[0]))
			}

			return printCart(cmd.OutOrStdout(), a)
		}),
	}
}

// newClearCmd drops the persisted cart. It works on storage directly: the
// store itself only ever edits lines.
func newClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the persisted cart",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, _ []string, a *app) error {
			deleted, err := a.storage.Delete(cmd.Context(), a.cfg.Cart.StorageKey)
			if err != nil {
				return fmt.Errorf("storage.Delete: %w", err)
			}
			a.logger.Info("cart cleared",
				zap.String("cart_key", a.cfg.Cart.StorageKey), zap.Bool("existed", deleted))

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "{\"cleared\": %t}\n", deleted)
			return err
		}),
	}
}

type lineView struct {
	ID        string `json:"id"`
	VariantID string `json:"variantId"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
}

type cartView struct {
	Items        []lineView `json:"items"`
	IsDrawerOpen bool       `json:"isDrawerOpen"`
	TotalItems   int        `json:"totalItems"`
	TotalPacks   int        `json:"totalPacks"`
	Subtotal     string     `json:"subtotal,omitempty"`
}

func printCart(w io.Writer, a *app) error {
	state := a.store.Snapshot()

	view := cartView{
		Items:        make([]lineView, 0, len(state.Items)),
		IsDrawerOpen: state.IsDrawerOpen,
		TotalItems:   state.TotalItems,
		TotalPacks:   state.TotalPacks,
	}
	for _, item := range state.Items {
		view.Items = append(view.Items, lineView{
			ID:        item.ID,
			VariantID: item.VariantID,
			Title:     item.Title,
			Price:     item.Price.String(),
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal().String(),
		})
	}

	if subtotal, err := a.store.Subtotal(); err != nil {
		a.logger.Warn("subtotal unavailable", zap.Error(err))
	} else {
		view.Subtotal = subtotal.String()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("enc.Encode: %w", err)
	}

	return nil
}
