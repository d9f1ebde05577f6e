// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package cli

import (
	"slices"
	"strconv"
	"time"

	"github.com/joeycumines/go-eventcascade/internal/scenario"
	"github.com/joeycumines/go-utilpkg/jsonenc"
)

// appendReport encodes r as a single line of JSON.
func appendReport(dst []byte, name string, r scenario.Report) []byte {
	dst = append(dst, `{"scenario":`...)
	dst = jsonenc.AppendString(dst, name)
	dst = append(dst, `,"step":`...)
	dst = strconv.AppendInt(dst, int64(r.Step), 10)
	dst = append(dst, `,"name":`...)
	dst = jsonenc.AppendString(dst, r.Name)
	dst = append(dst, `,"elapsedMs":`...)
	dst = jsonenc.AppendFloat64(dst, float64(r.Elapsed)/float64(time.Millisecond))
	dst = append(dst, `,"results":[`...)
	for i, res := range r.Results {
		if i != 0 {
			dst = append(dst, ',')
		}
		dst = appendResult(dst, res)
	}
	dst = append(dst, "]}\n"...)
	return dst
}

func appendResult(dst []byte, r scenario.Result) []byte {
	dst = append(dst, `{"key":`...)
	dst = jsonenc.AppendString(dst, r.Key)
	if r.Signal != "" {
		dst = append(dst, `,"signal":`...)
		dst = jsonenc.AppendString(dst, r.Signal)
	}
	if r.Duration != 0 {
		dst = append(dst, `,"duration":`...)
		dst = jsonenc.AppendString(dst, r.Duration.String())
	}
	dst = append(dst, `,"timedOut":`...)
	dst = strconv.AppendBool(dst, r.TimedOut)
	dst = append(dst, `,"arrival":`...)
	dst = strconv.AppendInt(dst, int64(r.Arrival), 10)
	if len(r.Meta) != 0 {
		dst = append(dst, `,"meta":{`...)
		keys := make([]string, 0, len(r.Meta))
		for k := range r.Meta {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for i, k := range keys {
			if i != 0 {
				dst = append(dst, ',')
			}
			dst = jsonenc.AppendString(dst, k)
			dst = append(dst, ':')
			dst = jsonenc.AppendString(dst, r.Meta[k])
		}
		dst = append(dst, '}')
	}
	dst = append(dst, '}')
	return dst
}
