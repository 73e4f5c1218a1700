package utils

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Log 全局日志，Init 之前为 charmbracelet 默认 logger
var Log = log.Default()

func levelStyle(name, bg, fg string) lipgloss.Style {
	return lipgloss.NewStyle().
		SetString(name).
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(fg)).Bold(true)
}

// Init builds the process logger. level is debug, info, warn or error;
// anything unparseable falls back to info.
func Init(level string) *log.Logger {
	Log = New(os.Stderr, level)
	return Log
}

// New builds a styled logger on w.
func New(w io.Writer, level string) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	l.SetLevel(lvl)

	styles := log.DefaultStyles()
	styles.Levels[log.DebugLevel] = levelStyle("DEBUG", "#44444480", "#DDDDDDFF")
	styles.Levels[log.InfoLevel] = levelStyle("INFO🌟", "#90EE9080", "#006400FF")
	styles.Levels[log.WarnLevel] = levelStyle("WARN🍪", "#FFA500FF", "#000000FF")
	styles.Levels[log.ErrorLevel] = levelStyle("ERROR🔥", "#FF0000FF", "#00FFFF00")
	styles.Levels[log.FatalLevel] = levelStyle("FATAL⚡️", "#000000FF", "#00FFFF00")
	l.SetStyles(styles)
	return l
}

// Named 带前缀的子 logger，例如 "manager"
func Named(prefix string) *log.Logger {
	return Log.WithPrefix(prefix)
}
