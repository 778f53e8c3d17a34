package util

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

/*
 * a custom logger. Each level can be switched on or off with the mode mask,
 * lines go either to a file or to stderr.
 */
const (
	Error   = 1
	Warning = 2
	Info    = 4

	AllModes = Error | Warning | Info
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

type LoggerInfo struct {
	Filename  string `yaml:"filename"` // empty means stderr
	IsColored bool   `yaml:"is_colored"`
	SaveTime  bool   `yaml:"save_time"`
	Mode      uint8  `yaml:"mode"`
}

type Logger struct {
	li  *LoggerInfo
	out io.Writer // set when not logging into a file
	mtx sync.Mutex
}

func NewLogger(li *LoggerInfo) *Logger {
	l := &Logger{li: li}
	if li.Filename == "" {
		l.out = os.Stderr
	}
	return l
}

// NewWriterLogger logs into w regardless of the configured file name.
func NewWriterLogger(li *LoggerInfo, w io.Writer) *Logger {
	return &Logger{li: li, out: w}
}

func (l *Logger) colorize(tag string, style lipgloss.Style) string {
	if l.li.IsColored {
		return style.Render(tag)
	}
	return tag
}

func (l *Logger) prepareString(tag string, style lipgloss.Style) string {
	toWrite := l.colorize(tag, style) + " "
	if l.li.SaveTime {
		toWrite += time.Now().Format(time.RFC3339) + " "
	}
	return toWrite
}

func (l *Logger) LogString(s string) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if l.out != nil {
		fmt.Fprintln(l.out, s)
		return
	}
	// just append line
	f, err := os.OpenFile(l.li.Filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		DebugPrintln("Failed to open log file:", err)
		return
	}
	defer f.Close()
	f.WriteString(s + "\n")
}

func (l *Logger) LogError(err error) {
	if l.li.Mode&Error == Error {
		l.LogString(l.prepareString("[ERROR]", errorStyle) + err.Error())
	}
}

func (l *Logger) LogWarning(warning string) {
	if l.li.Mode&Warning == Warning {
		l.LogString(l.prepareString("[WARNING]", warningStyle) + warning)
	}
}

func (l *Logger) LogInfo(info string) {
	if l.li.Mode&Info == Info {
		l.LogString(l.prepareString("[INFO]", infoStyle) + info)
	}
}

func (l *Logger) LogInfof(format string, args ...any) {
	l.LogInfo(fmt.Sprintf(format, args...))
}
