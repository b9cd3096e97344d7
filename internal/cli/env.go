package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var envShell string

func newEnvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Print shell code that puts the switcher bin directory on PATH",
		Long:  "Add eval \"$(php-switcher env)\" to your shell profile.",
		Args:  cobra.NoArgs,
		RunE:  runEnv,
	}
	cmd.Flags().StringVar(&envShell, "shell", "sh", "Shell syntax: sh or fish")
	return cmd
}

func runEnv(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	w := cmd.OutOrStdout()
	if outputJSON {
		return writeJSON(cmd, map[string]string{"bin_dir": s.layout.BinDir})
	}
	switch envShell {
	case "sh", "bash", "zsh":
		fmt.Fprintf(w, "export PATH=\"%s:$PATH\"\n", s.layout.BinDir)
	case "fish":
		fmt.Fprintf(w, "fish_add_path --prepend %q\n", s.layout.BinDir)
	default:
		return fmt.Errorf("unsupported shell %q (want sh or fish)", envShell)
	}
	return nil
}
