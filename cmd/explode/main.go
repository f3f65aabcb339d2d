/*
 *  MIT License
 *
 *  Copyright (c) 2020 Nicolas JUHEL
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a copy
 *  of this software and associated documentation files (the "Software"), to deal
 *  in the Software without restriction, including without limitation the rights
 *  to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *  copies of the Software, and to permit persons to whom the Software is
 *  furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included in all
 *  copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *  AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *  LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *  OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *  SOFTWARE.
 *
 */

// Command explode recursively unpacks one file or directory and prints the
// resulting tree.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sabouaram/explode/pkg/unpack"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		root    string
		keep    bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "explode <path>",
		Short: "Recursively explode an archive, printing the entries it contains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logrus.New()
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}

			scratch := root
			if scratch == "" {
				scratch = os.Getenv("EXPLODE_ROOT")
			}
			if scratch == "" {
				scratch = os.TempDir()
			}

			u, err := unpack.Into(args[0], scratch, unpack.WithLogger(log))
			if err != nil {
				return fmt.Errorf("explode: %w", err)
			}

			if keep {
				log.WithField("path", u.IntoPath()).Info("scratch directory retained")
			} else {
				defer u.Close()
			}

			status := u.Status()
			switch status.Kind {
			case unpack.Success:
				unpack.Print(cmd.OutOrStdout(), status.Children, 0)
			case unpack.Error:
				return fmt.Errorf("explode: %s", status.Message)
			default:
				fmt.Fprintln(cmd.OutOrStdout(), describeLeaf(status))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "scratch directory for intermediate extraction (default: $EXPLODE_ROOT or the OS temp dir)")
	cmd.Flags().BoolVar(&keep, "keep", false, "keep the scratch directory instead of deleting it on exit")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

func describeLeaf(s unpack.Status) string {
	switch s.Kind {
	case unpack.Unnecessary:
		return "(empty)"
	case unpack.Unrecognised:
		return "(unrecognised, not a container)"
	case unpack.Unsupported:
		return fmt.Sprintf("(unsupported format: %s)", s.Type)
	default:
		return ""
	}
}
