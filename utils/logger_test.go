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
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"trace":   logrus.TraceLevel,
		" DEBUG ": logrus.DebugLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"":        logrus.InfoLevel,
		"bogus":   logrus.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}

func TestNewLoggerIsRegisteredOnce(t *testing.T) {
	a := NewLogger("REGISTRY_TEST")
	b := NewLogger("REGISTRY_TEST")
	assert.Same(t, a, b)

	assert.True(t, SetLoggerLevel("REGISTRY_TEST", "error"))
	assert.Equal(t, logrus.ErrorLevel, a.GetLevel())
	assert.False(t, SetLoggerLevel("MISSING_TEST", "error"))
}

func TestConfigureLogLevelAppliesToRegistered(t *testing.T) {
	l := NewLogger("LEVEL_TEST")
	ConfigureLogLevel("debug")
	t.Cleanup(func() { ConfigureLogLevel("info") })
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
}

func TestTextFormatter(t *testing.T) {
	f := &Log4jColorFormatter{LoggerName: "BLOG", NameWidth: 10, CallerWidth: 25}
	entry := logrus.NewEntry(logrus.New()).WithField("id", 3)
	entry.Level = logrus.WarnLevel
	entry.Message = "find by criteria"

	out, err := f.Format(entry)
	require.NoError(t, err)
	line := string(out)
	assert.Contains(t, line, "WARN")
	assert.Contains(t, line, "BLOG")
	assert.Contains(t, line, "find by criteria id=3")
	assert.Equal(t, byte('\n'), out[len(out)-1])
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&JSONLogFormatter{LoggerName: "BLOG"})
	l.WithField("error", errors.New("boom")).Error("save failed")

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "error", rec["level"])
	assert.Equal(t, "BLOG", rec["model"])
	assert.Equal(t, "save failed", rec["message"])
	assert.Equal(t, map[string]interface{}{"error": "boom"}, rec["fields"])
}

func TestCompactCaller(t *testing.T) {
	assert.Equal(t, "db/conn.go:42", compactCaller("db/conn.go", 42, 25))
	assert.Equal(t, "m/database/manager.go:7", compactCaller("/src/module/database/manager.go", 7, 23))
	assert.LessOrEqual(t, len(compactCaller("/very/long/directory/names/somewhere/file_name.go", 1234, 12)), 12)
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("BLOG_TEST_STRING", "value")
	t.Setenv("BLOG_TEST_BOOL", "true")
	t.Setenv("BLOG_TEST_BAD_BOOL", "nope")
	_ = os.Unsetenv("BLOG_TEST_MISSING")

	assert.Equal(t, "value", EnvDefaultString("BLOG_TEST_STRING", "x"))
	assert.Equal(t, "x", EnvDefaultString("BLOG_TEST_MISSING", "x"))
	assert.True(t, EnvDefaultBool("BLOG_TEST_BOOL", false))
	assert.True(t, EnvDefaultBool("BLOG_TEST_BAD_BOOL", true))
	assert.False(t, EnvDefaultBool("BLOG_TEST_MISSING", false))
}
