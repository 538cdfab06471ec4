// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"testing"
)

func TestGetAnomalies(t *testing.T) {
	data := buildSyntheticPE64(".text", []byte{0x90})

	file, err := NewBytes(data, &Options{})
	if err != nil {
		t.Fatalf("NewBytes failed, reason: %v", err)
	}
	if err := file.Parse(); err != nil {
		t.Fatalf("Parse() failed, reason: %v", err)
	}

	// The synthetic image leaves the optional header's subsystem version
	// at zero, which falls outside the expected 3..6 range.
	if err := file.GetAnomalies(); err != nil {
		t.Fatalf("GetAnomalies() failed, reason: %v", err)
	}

	if !stringInSlice(AnoMajorSubsystemVersion, file.Anomalies) {
		t.Errorf("anomaly %s not found in anomalies, got: %v", AnoMajorSubsystemVersion, file.Anomalies)
	}
	if !stringInSlice(AnoPETimeStampNull, file.Anomalies) {
		t.Errorf("anomaly %s not found in anomalies, got: %v", AnoPETimeStampNull, file.Anomalies)
	}
}
