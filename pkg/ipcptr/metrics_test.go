/*
 * Copyright 2025 SREDiag Authors
 *
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

//go:build linux || darwin

package ipcptr

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func TestCountersMove(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, RegisterMetrics(reg))
	// re-registering is tolerated
	require.NoError(t, RegisterMetrics(reg))

	creates := counterValue(t, createsTotal)
	destroys := counterValue(t, destroysTotal)
	failures := counterValue(t, failuresTotal)

	ctx := context.Background()
	p, err := Create(ctx, testKey(), testPayload{})
	require.NoError(t, err)
	require.NoError(t, p.Close())

	_, err = Attach[testPayload](ctx, testKey())
	require.Error(t, err)

	assert.Equal(t, creates+1, counterValue(t, createsTotal))
	assert.Equal(t, destroys+1, counterValue(t, destroysTotal))
	assert.Equal(t, failures+1, counterValue(t, failuresTotal))
}

func TestOtelHooksAreOptional(t *testing.T) {
	ctx := context.Background()
	p, err := Create(ctx, testKey(), testPayload{A: 2},
		WithMeter[testPayload](metricnoop.NewMeterProvider().Meter("ipcptr-test")),
		WithTracer[testPayload](tracenoop.NewTracerProvider().Tracer("ipcptr-test")),
	)
	require.NoError(t, err)
	defer p.Clear()

	c, err := p.Clone(ctx)
	require.NoError(t, err)
	// the clone inherits the parent's instrumentation options
	require.NoError(t, c.Close())
	assert.Equal(t, int64(2), p.Get().A)
}
