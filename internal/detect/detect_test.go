// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package detect_test

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/savekit/arksave/internal/detect"
	"github.com/savekit/arksave/saveerr"
)

func i32le(v int32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v))
	return b
}

func TestDetectSQLiteMagicIsASA(t *testing.T) {
	data := append([]byte("SQLite format 3\x00"), 0, 0, 0, 0)
	res, err := detect.Detect(data)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if res.Format != detect.FormatASA {
		t.Errorf("Format = %v, want ASA", res.Format)
	}
}

func TestDetectConfirmedASEVersion(t *testing.T) {
	data := append(i32le(6), []byte("PrimalPlayerData")...)
	res, err := detect.Detect(data)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if res.Format != detect.FormatASE || res.Version != 6 {
		t.Errorf("result = %+v", res)
	}
	if res.Kind != detect.KindProfile {
		t.Errorf("Kind = %v, want profile", res.Kind)
	}
	if res.Warning != "" {
		t.Errorf("Warning = %q, want empty for confirmed version", res.Warning)
	}
}

func TestDetectTentativeVersionWarns(t *testing.T) {
	data := i32le(7)
	res, err := detect.Detect(data)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if res.Warning == "" {
		t.Error("expected a warning for tentative version 7")
	}
}

func TestDetectUnknownVersionFails(t *testing.T) {
	data := i32le(999)
	_, err := detect.Detect(data)
	if !errors.Is(err, saveerr.ErrUnknownFormat) {
		t.Errorf("error = %v, want ErrUnknownFormat", err)
	}
}

func TestDetectKindTribeAndCloud(t *testing.T) {
	tribe, err := detect.Detect(append(i32le(5), []byte("PrimalTribeData")...))
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if tribe.Kind != detect.KindTribe {
		t.Errorf("Kind = %v, want tribe", tribe.Kind)
	}

	cloud, err := detect.Detect(append(i32le(10), []byte("ArkCloudInventoryData")...))
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if cloud.Kind != detect.KindCloudInventory {
		t.Errorf("Kind = %v, want cloud inventory", cloud.Kind)
	}
}

func TestDetectDefaultsToWorldKind(t *testing.T) {
	res, err := detect.Detect(i32le(11))
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if res.Kind != detect.KindWorld {
		t.Errorf("Kind = %v, want world", res.Kind)
	}
}
