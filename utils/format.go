/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

var (
	levelColors = map[logrus.Level]*color.Color{
		logrus.TraceLevel: color.New(color.FgWhite),
		logrus.DebugLevel: color.New(color.FgBlue),
		logrus.InfoLevel:  color.New(color.FgGreen),
		logrus.WarnLevel:  color.New(color.FgYellow),
		logrus.ErrorLevel: color.New(color.FgRed),
		logrus.FatalLevel: color.New(color.FgRed, color.Bold),
		logrus.PanicLevel: color.New(color.FgRed, color.Bold),
	}
	pidColor   = color.New(color.FgMagenta)
	nameColor  = color.New(color.FgCyan)
	faintColor = color.New(color.Faint)
)

// Log4jColorFormatter renders entries like a Spring Boot console line:
//
//	2025-01-02 15:04:05.000    INFO 4242   - [main]       BLOG db/conn.go:42 : message key=value
type Log4jColorFormatter struct {
	LoggerName      string
	TimestampFormat string
	NameWidth       int
	CallerWidth     int
}

func (f *Log4jColorFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	lvl := levelColors[entry.Level]
	if lvl == nil {
		lvl = levelColors[logrus.InfoLevel]
	}
	var b strings.Builder
	b.WriteString(timestamp(f.TimestampFormat))
	b.WriteByte(' ')
	b.WriteString(lvl.Sprintf("%7s", strings.ToUpper(entry.Level.String())))
	b.WriteByte(' ')
	b.WriteString(pidColor.Sprintf("%-6d", os.Getpid()))
	b.WriteString(" - ")
	b.WriteString(pidColor.Sprint("[main]"))
	b.WriteByte(' ')
	b.WriteString(nameColor.Sprintf("%*s", f.NameWidth, limitRunes(f.LoggerName, f.NameWidth)))
	if entry.Caller != nil {
		b.WriteString(faintColor.Sprintf(" %*s", f.CallerWidth, compactCaller(entry.Caller.File, entry.Caller.Line, f.CallerWidth)))
	}
	b.WriteString(faintColor.Sprint(" :"))
	b.WriteByte(' ')
	b.WriteString(entry.Message)
	for _, k := range sortedKeys(entry.Data) {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// JSONLogFormatter renders one JSON object per entry; entry data goes to
// "fields".
type JSONLogFormatter struct {
	LoggerName      string
	TimestampFormat string
}

type jsonLogRecord struct {
	Time    string                 `json:"time"`
	Level   string                 `json:"level"`
	Model   string                 `json:"model"`
	Caller  string                 `json:"caller,omitempty"`
	Message string                 `json:"message"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

func (f *JSONLogFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	rec := jsonLogRecord{
		Time:    timestamp(f.TimestampFormat),
		Level:   entry.Level.String(),
		Model:   f.LoggerName,
		Message: entry.Message,
	}
	if entry.Caller != nil {
		rec.Caller = fmt.Sprintf("%s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}
	if len(entry.Data) > 0 {
		rec.Fields = make(map[string]interface{}, len(entry.Data))
		for k, v := range entry.Data {
			if err, ok := v.(error); ok {
				v = err.Error()
			}
			rec.Fields[k] = v
		}
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func sortedKeys(data logrus.Fields) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func limitRunes(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n])
}

// compactCaller shortens "a/b/c/file.go:12" to fit width by abbreviating
// leading directories to their first letter, then by cutting from the left.
func compactCaller(file string, line, width int) string {
	file = filepath.ToSlash(file)
	parts := strings.Split(file, "/")
	if len(parts) > 3 {
		parts = parts[len(parts)-3:]
	}
	out := fmt.Sprintf("%s:%d", strings.Join(parts, "/"), line)
	for i := 0; i < len(parts)-1 && width > 0 && len(out) > width; i++ {
		if p := []rune(parts[i]); len(p) > 1 {
			parts[i] = string(p[0])
		}
		out = fmt.Sprintf("%s:%d", strings.Join(parts, "/"), line)
	}
	if r := []rune(out); width > 0 && len(r) > width {
		out = string(r[len(r)-width:])
	}
	return out
}
