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
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	createsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ipcptr_creates_total",
		Help: "Total number of segments created by this process.",
	})
	attachesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ipcptr_attaches_total",
		Help: "Total number of successful attaches by this process.",
	})
	destroysTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ipcptr_destroys_total",
		Help: "Total number of shared payloads destroyed by this process.",
	})
	failuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ipcptr_failures_total",
		Help: "Total number of failed create and attach calls.",
	})
)

// RegisterMetrics registers the package counters with reg. Counters are
// process-local and not registered anywhere by default.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		createsTotal, attachesTotal, destroysTotal, failuresTotal,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// count records one occurrence on the optional OTel meter. Instrument
// creation errors are swallowed; metrics never fail an operation.
func (o *options[T]) count(ctx context.Context, name string) {
	if o.meter == nil {
		return
	}
	c, err := o.meter.Int64Counter(name)
	if err != nil {
		return
	}
	c.Add(ctx, 1)
}
