// Command edicli is a standalone workbench for the ORDERS message codec.
// It encodes, decodes, and validates wire messages without a running
// gateway, and checks GTIN and eCl@ss article identifiers.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/tradelink/backend/internal/domain/edifact"
	"github.com/tradelink/backend/internal/domain/standards"
)

const orderDateLayout = "2006-01-02"

// orderDocument is the JSON shape the CLI reads and writes for orders.
type orderDocument struct {
	Number    string              `json:"number"`
	BuyerID   string              `json:"buyer_id"`
	SellerID  string              `json:"seller_id"`
	OrderDate string              `json:"order_date"`
	Items     []orderItemDocument `json:"items"`
}

type orderItemDocument struct {
	LineNumber  int             `json:"line_number"`
	ProductCode string          `json:"product_code"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "edicli",
		Short:         "ORDERS message codec workbench",
		Long:          "edicli encodes, decodes, and validates EDIFACT ORDERS messages,\nand checks GTIN and eCl@ss article identifiers.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newEncodeCommand(),
		newDecodeCommand(),
		newValidateCommand(),
		newCheckCommand(),
	)
	return root
}

func newEncodeCommand() *cobra.Command {
	var (
		inputPath  string
		messageRef string
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a JSON order document into a wire message",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(inputPath)
			if err != nil {
				return err
			}

			var doc orderDocument
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("parse order document: %w", err)
			}

			order := edifact.Order{
				Number:   doc.Number,
				BuyerID:  doc.BuyerID,
				SellerID: doc.SellerID,
			}
			if doc.OrderDate != "" {
				orderDate, err := time.Parse(orderDateLayout, doc.OrderDate)
				if err != nil {
					return fmt.Errorf("parse order_date %q: %w", doc.OrderDate, err)
				}
				order.OrderDate = orderDate
			}
			for _, item := range doc.Items {
				order.Items = append(order.Items, edifact.OrderItem{
					LineNumber:  item.LineNumber,
					ProductCode: item.ProductCode,
					Quantity:    item.Quantity,
					UnitPrice:   item.UnitPrice,
				})
			}

			var opts []edifact.Option
			if messageRef != "" {
				opts = append(opts, edifact.WithReferenceGenerator(func() string { return messageRef }))
			}

			message, err := edifact.NewEncoder(opts...).Encode(order)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), message.String())
			fmt.Fprintf(cmd.ErrOrStderr(), "Encoded %d segments, message reference %s\n",
				message.SegmentCount(), message.Reference())
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "JSON order file (default: stdin)")
	cmd.Flags().StringVar(&messageRef, "ref", "", "pin the message reference instead of generating one")
	return cmd
}

func newDecodeCommand() *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a wire message into a JSON order document",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(inputPath)
			if err != nil {
				return err
			}

			order, err := edifact.NewDecoder().Decode(string(raw))
			if err != nil {
				return err
			}

			doc := orderDocument{
				Number:    order.Number,
				BuyerID:   order.BuyerID,
				SellerID:  order.SellerID,
				OrderDate: order.OrderDate.Format(orderDateLayout),
			}
			for _, item := range order.Items {
				doc.Items = append(doc.Items, orderItemDocument{
					LineNumber:  item.LineNumber,
					ProductCode: item.ProductCode,
					Quantity:    item.Quantity,
					UnitPrice:   item.UnitPrice,
				})
			}

			out, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "wire message file (default: stdin)")
	return cmd
}

func newValidateCommand() *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a wire message against the ORDERS grammar",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(inputPath)
			if err != nil {
				return err
			}

			violations := edifact.NewValidator().Validate(string(raw))
			if violations.Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), "OK: message is structurally valid")
				return nil
			}

			for _, finding := range violations.Flatten() {
				fmt.Fprintln(cmd.OutOrStdout(), finding)
			}
			return fmt.Errorf("%d structural violations", len(violations.Flatten()))
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "wire message file (default: stdin)")
	return cmd
}

func newCheckCommand() *cobra.Command {
	check := &cobra.Command{
		Use:   "check",
		Short: "Check article identifiers",
	}

	check.AddCommand(&cobra.Command{
		Use:   "gtin <code>",
		Short: "Check a GTIN-14 article number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !standards.IsValidGTIN(args[0]) {
				return fmt.Errorf("%s is not a valid GTIN-14", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: %s is a valid GTIN-14\n", args[0])
			return nil
		},
	})

	check.AddCommand(&cobra.Command{
		Use:   "eclass <code>",
		Short: "Check an eCl@ss commodity code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !standards.IsValidEclass(args[0]) {
				return fmt.Errorf("%s is not a valid eCl@ss code (releases %d-%d)",
					args[0], standards.MinEclassVersion, standards.MaxEclassVersion)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: %s is a valid eCl@ss code\n", args[0])
			return nil
		},
	})

	return check
}

// readInput reads the named file, or stdin when path is empty.
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
