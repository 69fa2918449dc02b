package forge

import (
	"embed"
	"io/fs"

	"github.com/solitary-project/forge/pkg/cobrax/topics"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicFiles embed.FS

// initTopics installs the topic-aware help command. Markdown topics are
// rendered with glamour on a terminal and shown raw otherwise.
func initTopics(rootCmd *cobra.Command) error {
	source, err := fs.Sub(topicFiles, "topics")
	if err != nil {
		return err
	}
	opts := topics.Options{Extensions: []string{".md"}}
	if stdoutIsTerminal() {
		opts.Renderer = topics.NewGlamourRenderer()
	}
	_, err = topics.Initialize(rootCmd, source, opts)
	return err
}
