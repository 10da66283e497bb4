// Package obs exposes Prometheus metrics for the request pipeline.
package obs
