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

package ipcptr

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option configures Create, Attach and CreateOrAttach.
type Option[T any] func(*options[T])

type options[T any] struct {
	onDestroy func(*T)
	meter     metric.Meter
	tracer    trace.Tracer
}

func resolveOptions[T any](opts []Option[T]) options[T] {
	var o options[T]
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WithOnDestroy registers a hook that runs exactly once, under the region
// lock, when this process is the one tearing the payload down. The hook
// sees the payload before the block is zeroed.
func WithOnDestroy[T any](fn func(*T)) Option[T] {
	return func(o *options[T]) { o.onDestroy = fn }
}

// WithMeter attaches an OpenTelemetry meter; create/attach/destroy counts
// are recorded on it in addition to the package's prometheus counters.
func WithMeter[T any](m metric.Meter) Option[T] {
	return func(o *options[T]) { o.meter = m }
}

// WithTracer attaches an OpenTelemetry tracer; Create and Attach run
// inside a span when one is set.
func WithTracer[T any](tr trace.Tracer) Option[T] {
	return func(o *options[T]) { o.tracer = tr }
}
