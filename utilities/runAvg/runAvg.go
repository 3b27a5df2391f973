// Copyright (C) 2018 spdfg
//
// This file is part of Elektron.
//
// Elektron is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Elektron is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Elektron. If not, see <http://www.gnu.org/licenses/>.
//

// Package runAvg computes a windowed running average over a sequence of
// samples. It is instantiable rather than a package-level singleton, one
// Tracker per machine, so constructing multiple independent schedulers
// never shares state between them.
package runAvg

import (
	"container/list"
	"errors"
)

// Tracker maintains a fixed-size sliding window of samples and their
// running sum, giving O(1) average recomputation per sample.
type Tracker struct {
	window     list.List
	windowSize int
	sum        float64
}

// New returns a Tracker with the given window size. A windowSize of 0
// means "no smoothing" -- every Add call degenerates to "only the latest
// sample matters".
func New(windowSize int) *Tracker {
	return &Tracker{windowSize: windowSize}
}

// Add folds in a new sample and returns the current running average.
func (t *Tracker) Add(sample float64) float64 {
	if t.windowSize <= 0 {
		return sample
	}
	if t.window.Len() < t.windowSize {
		t.window.PushBack(sample)
		t.sum += sample
	} else {
		front := t.window.Front()
		t.sum -= front.Value.(float64)
		t.window.Remove(front)
		t.window.PushBack(sample)
		t.sum += sample
	}
	return t.sum / float64(t.window.Len())
}

// Reset clears all accumulated samples.
func (t *Tracker) Reset() {
	t.window.Init()
	t.sum = 0.0
}

// ErrEmptyWindow is returned by Average when no sample has been added yet.
var ErrEmptyWindow = errors.New("runAvg: window has no samples")

// Average returns the current running average without adding a sample.
func (t *Tracker) Average() (float64, error) {
	if t.window.Len() == 0 {
		return 0, ErrEmptyWindow
	}
	return t.sum / float64(t.window.Len()), nil
}
