package cmd

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/frahmantamala/partner-transaction/internal/transaction"
	"github.com/frahmantamala/partner-transaction/pkg/logger"
	"github.com/spf13/cobra"
)

type signOptions struct {
	PartnerKey   string
	PartnerRefNo string
	Secret       string
	TotalAmount  int64
	Timestamp    string
	WithQuote    bool
}

var signOpts signOptions

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Print a signed submission payload",
	Long:  `Build a submission for /api/submittrxmessage, Base64-encode the secret, sign it and print the JSON body.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSign(cmd.OutOrStdout(), signOpts, time.Now())
	},
}

func init() {
	signCmd.Flags().StringVar(&signOpts.PartnerKey, "partner-key", "", "partner key")
	signCmd.Flags().StringVar(&signOpts.PartnerRefNo, "ref", "", "partner reference number")
	signCmd.Flags().StringVar(&signOpts.Secret, "secret", "", "partner secret in plain text")
	signCmd.Flags().Int64Var(&signOpts.TotalAmount, "total", 0, "total amount in cents")
	signCmd.Flags().StringVar(&signOpts.Timestamp, "timestamp", "", "ISO-8601 timestamp, defaults to now")
	signCmd.Flags().BoolVar(&signOpts.WithQuote, "quote", false, "also print the expected pricing")
	_ = signCmd.MarkFlagRequired("partner-key")
	_ = signCmd.MarkFlagRequired("ref")
	_ = signCmd.MarkFlagRequired("secret")
	_ = signCmd.MarkFlagRequired("total")
}

type signOutput struct {
	Request *transaction.TransactionRequest `json:"request"`
	Quote   *transaction.SuccessResponse    `json:"quote,omitempty"`
}

func buildSignedRequest(opts signOptions, now time.Time) (*transaction.TransactionRequest, error) {
	if opts.PartnerKey == "" || opts.Secret == "" {
		return nil, errors.New("partner key and secret are required")
	}

	ts := opts.Timestamp
	if ts == "" {
		ts = now.UTC().Format(time.RFC3339)
	}

	req := &transaction.TransactionRequest{
		PartnerKey:      opts.PartnerKey,
		PartnerRefNo:    opts.PartnerRefNo,
		PartnerPassword: base64.StdEncoding.EncodeToString([]byte(opts.Secret)),
		TotalAmount:     opts.TotalAmount,
		Timestamp:       ts,
	}

	sig, err := transaction.NewSigner(logger.LoggerWrapper()).Sign(req)
	if err != nil {
		return nil, fmt.Errorf("failed to sign request: %w", err)
	}
	req.Sig = sig
	return req, nil
}

func runSign(w io.Writer, opts signOptions, now time.Time) error {
	req, err := buildSignedRequest(opts, now)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if !opts.WithQuote {
		return enc.Encode(req)
	}

	quote := transaction.NewQuote(req.TotalAmount)
	resp := transaction.NewSuccessResponse(&quote)
	return enc.Encode(signOutput{Request: req, Quote: &resp})
}
