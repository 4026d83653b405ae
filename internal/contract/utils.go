package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/mindscore/schema"
)

// Risk label constants.
const (
	HighValue     = "High"     // High value
	ModerateValue = "Moderate" // Moderate value
	LowValue      = "Low"      // Low value
)

// Color variables for console output.
var (
	HighColor     = color.New(color.FgRed, color.Bold) // HighColor represents standard danger.
	ModerateColor = color.New(color.FgYellow)          // ModerateColor represents standard caution, not bold.
	LowColor      = color.New(color.FgCyan)            // LowColor represents informational / low-priority signal.
	InfoColor     = color.New(color.FgGreen)
	WarnColor     = color.New(color.FgYellow, color.Bold)
	FatalColor    = color.New(color.FgRed, color.Bold)
)

// GetPlainLabel returns a plain text label for the risk level.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(risk schema.RiskLevel) string {
	switch risk {
	case schema.RiskHigh:
		return HighValue
	case schema.RiskModerate:
		return ModerateValue
	default:
		return LowValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(risk schema.RiskLevel) string {
	text := GetPlainLabel(risk)

	switch text {
	case HighValue:
		return HighColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default:
		return LowColor.Sprint(text)
	}
}

// GetSeverityColor colors an interpretation by how far up the band table it sits.
func GetSeverityColor(text string, severity, bandCount int) string {
	if bandCount <= 1 {
		return text
	}
	ratio := float64(severity) / float64(bandCount-1)
	switch {
	case ratio >= 0.75:
		return HighColor.Sprint(text)
	case ratio >= 0.4:
		return ModerateColor.Sprint(text)
	default:
		return LowColor.Sprint(text)
	}
}

// DirectionSymbol renders a trend direction, with an arrow when emojis are on.
func DirectionSymbol(d *schema.Direction, useEmojis bool) string {
	if d == nil {
		return "-"
	}
	if !useEmojis {
		return string(*d)
	}
	switch *d {
	case schema.DirectionUp:
		return "⬆️ up"
	case schema.DirectionDown:
		return "⬇️ down"
	default:
		return "➡️ same"
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "%s %s: %v\n", FatalColor.Sprint("Fatal"), msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "%s %s: %v\n", WarnColor.Sprint("Warn"), msg, err)
}

// LogInfo logs an informational message to stderr.
func LogInfo(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", InfoColor.Sprint("Info"), fmt.Sprintf(format, args...))
}

// GetDBFilePath returns the path to the SQLite DB file for history storage.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".mindscore_history.db"
	}
	return filepath.Join(homeDir, ".mindscore_history.db")
}

// GetLockFilePath returns the lock file guarding writes to a SQLite DB file.
func GetLockFilePath(dbPath string) string {
	return dbPath + ".lock"
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and some content.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
