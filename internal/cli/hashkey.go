package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/daap14/roster/internal/auth"
)

// KeyPair is the output of hash-key.
type KeyPair struct {
	Key  string `json:"key"`
	Hash string `json:"hash"`
}

// NewHashKeyCommand creates the hash-key command. It prints a new raw API key
// and the bcrypt hash to put in API_KEY_HASH.
func NewHashKeyCommand(rootOpts *RootOptions) *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-key",
		Short: "Generate an API key and its API_KEY_HASH value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)

			rawKey, hash, err := auth.NewService("", cost).GenerateKey()
			if err != nil {
				return usageError(f, err.Error())
			}

			kp := KeyPair{Key: rawKey, Hash: hash}
			return f.Success(kp, func(w io.Writer) {
				fmt.Fprintf(w, "key:  %s\nhash: %s\n", kp.Key, kp.Hash)
			})
		},
	}

	cmd.Flags().IntVar(&cost, "cost", 12, "bcrypt cost")

	return cmd
}
