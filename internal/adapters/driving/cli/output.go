package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/clipper/internal/adapters/driven/progress"
	"github.com/custodia-labs/clipper/internal/core/domain"
)

// progressPrinter writes progress messages as they arrive. On a terminal
// each message replaces the previous one on a single status line.
type progressPrinter struct {
	w       io.Writer
	tty     bool
	sink    *progress.ChannelSink
	done    chan struct{}
	printed bool
}

func startProgress(w io.Writer) *progressPrinter {
	p := &progressPrinter{
		w:    w,
		tty:  isTerminal(w),
		sink: progress.NewChannelSink(progress.DefaultBuffer),
		done: make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *progressPrinter) run() {
	defer close(p.done)
	for msg := range p.sink.Messages() {
		p.printed = true
		if p.tty {
			fmt.Fprintf(p.w, "\r\033[K%s", msg)
		} else {
			fmt.Fprintln(p.w, msg)
		}
	}
	if p.tty && p.printed {
		fmt.Fprintln(p.w)
	}
}

// Stop flushes pending messages and waits for the printer to exit.
func (p *progressPrinter) Stop() {
	p.sink.Close()
	<-p.done
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printClips(cmd *cobra.Command, clips []domain.Clip) {
	for i := range clips {
		c := &clips[i]
		offset := "-"
		if c.HasOffset() {
			offset = formatSeconds(*c.Offset)
		}
		cmd.Printf("  %s  %-8s %-8s %-20s %s\n",
			c.CreatedAt.Local().Format("2006-01-02 15:04"),
			formatSeconds(c.Duration), offset, c.Creator, c.Title)
		cmd.Printf("      %s\n", c.ID)
	}
}

func formatSeconds(s float64) string {
	return (time.Duration(s * float64(time.Second))).Round(time.Second).String()
}

func formatBytes(n int64) string {
	const unit = 1000
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "kMGTPE"[exp])
}
