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

package database

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/blog/utils"
)

func TestDefaultLoggerOmitsAdapterCaller(t *testing.T) {
	var buf bytes.Buffer
	lg := logrus.New()
	lg.SetOutput(&buf)
	lg.SetReportCaller(true)
	lg.SetFormatter(&utils.JSONLogFormatter{LoggerName: loggerName})

	log := NewDefaultLogger(lg)
	log.Info("connected", "driver", "sqlite", "attempt", 1)

	assert.False(t, lg.ReportCaller)
	assert.NotContains(t, buf.String(), "logger.go")

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "connected", rec["message"])
	assert.NotContains(t, rec, "caller")
	assert.Equal(t, map[string]interface{}{"driver": "sqlite", "attempt": float64(1)}, rec["fields"])
}

func TestDefaultLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := logrus.New()
	lg.SetOutput(&buf)
	lg.SetFormatter(&utils.JSONLogFormatter{LoggerName: loggerName})

	log := NewDefaultLogger(lg)
	log.SetLevel(LogLevelWarn)
	log.Info("dropped")
	log.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}
