/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package duration

import (
	"errors"
	"fmt"
	"math"
	"time"
	"unicode"
)

var (
	ErrEmpty       = errors.New("empty duration")
	ErrNumber      = errors.New("expected number")
	ErrUnitMissing = errors.New("time unit needed")
	ErrOverflow    = errors.New("duration overflow")
)

// UnknownUnitError reports a unit outside the accepted set.
type UnknownUnitError struct {
	Unit  string
	Value uint64
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("unknown time unit %q in %d%s", e.Unit, e.Value, e.Unit)
}

const (
	day   = 24 * time.Hour
	month = time.Duration(30.44 * float64(day))
	year  = time.Duration(365.25 * float64(day))
)

var units = map[string]time.Duration{
	"nsec": time.Nanosecond, "ns": time.Nanosecond,
	"usec": time.Microsecond, "us": time.Microsecond, "µs": time.Microsecond,
	"msec": time.Millisecond, "ms": time.Millisecond,
	"seconds": time.Second, "second": time.Second, "sec": time.Second, "s": time.Second,
	"minutes": time.Minute, "minute": time.Minute, "min": time.Minute, "m": time.Minute,
	"hours": time.Hour, "hour": time.Hour, "hr": time.Hour, "h": time.Hour,
	"days": day, "day": day, "d": day,
	"weeks": 7 * day, "week": 7 * day, "w": 7 * day,
	"months": month, "month": month, "M": month,
	"years": year, "year": year, "y": year,
}

// Parse reads a sequence of <number><unit> pairs such as "1h 30s",
// "2hours15min" or "90 sec". Whitespace may separate pairs and a number
// from its unit. Units are case-sensitive ("M" is months, "m" minutes).
func Parse(s string) (time.Duration, error) {
	rs := []rune(s)
	i := skipSpace(rs, 0)
	if i == len(rs) {
		return 0, ErrEmpty
	}

	var total time.Duration
	for i < len(rs) {
		start := i
		for i < len(rs) && rs[i] >= '0' && rs[i] <= '9' {
			i++
		}
		if start == i {
			return 0, fmt.Errorf("%w at offset %d", ErrNumber, start)
		}
		n, err := parseUint(rs[start:i])
		if err != nil {
			return 0, err
		}

		i = skipSpace(rs, i)
		ustart := i
		for i < len(rs) && (unicode.IsLetter(rs[i]) || rs[i] == 'µ') {
			i++
		}
		if ustart == i {
			return 0, fmt.Errorf("%w after %d", ErrUnitMissing, n)
		}
		unit := string(rs[ustart:i])
		scale, ok := units[unit]
		if !ok {
			return 0, &UnknownUnitError{Unit: unit, Value: n}
		}

		if n > uint64(math.MaxInt64/int64(scale)) {
			return 0, ErrOverflow
		}
		part := time.Duration(n) * scale
		if total > math.MaxInt64-part {
			return 0, ErrOverflow
		}
		total += part
		i = skipSpace(rs, i)
	}
	return total, nil
}

func skipSpace(rs []rune, i int) int {
	for i < len(rs) && unicode.IsSpace(rs[i]) {
		i++
	}
	return i
}

func parseUint(digits []rune) (uint64, error) {
	var n uint64
	for _, r := range digits {
		d := uint64(r - '0')
		if n > (math.MaxUint64-d)/10 {
			return 0, ErrOverflow
		}
		n = n*10 + d
	}
	return n, nil
}
