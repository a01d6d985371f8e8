package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("AWS_S3_BUCKET_NAME", "hoop-archives-uploads")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.VisibilityTimeout != 300*time.Second {
		t.Errorf("expected 300s visibility timeout, got %v", cfg.VisibilityTimeout)
	}
	if cfg.RetentionPeriod != 96*time.Hour {
		t.Errorf("expected 96h retention, got %v", cfg.RetentionPeriod)
	}
	if cfg.MaxDeliveryAttempts != 3 {
		t.Errorf("expected 3 delivery attempts, got %d", cfg.MaxDeliveryAttempts)
	}
	if cfg.JobTimeout != 5*time.Minute {
		t.Errorf("expected 5m job timeout, got %v", cfg.JobTimeout)
	}
	if cfg.ScratchCeiling != 6*1024*1024*1024 {
		t.Errorf("expected 6GiB scratch ceiling, got %d", cfg.ScratchCeiling)
	}
	if cfg.GamesTable != "Games" || cfg.ClipsTable != "Clips" {
		t.Errorf("unexpected table defaults %s/%s", cfg.GamesTable, cfg.ClipsTable)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("QUEUE_VISIBILITY_TIMEOUT", "45s")
	t.Setenv("QUEUE_MAX_DELIVERY_ATTEMPTS", "5")
	t.Setenv("WORKER_CONCURRENCY", "4")
	t.Setenv("CLIPS_TABLE_NAME", "ClipsStaging")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.VisibilityTimeout != 45*time.Second {
		t.Errorf("override ignored, got %v", cfg.VisibilityTimeout)
	}
	if cfg.MaxDeliveryAttempts != 5 {
		t.Errorf("override ignored, got %d", cfg.MaxDeliveryAttempts)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("override ignored, got %d", cfg.Concurrency)
	}
	if cfg.ClipsTable != "ClipsStaging" {
		t.Errorf("override ignored, got %s", cfg.ClipsTable)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_S3_BUCKET_NAME", "hoop-archives-uploads")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "AWS_REGION") {
		t.Errorf("expected AWS_REGION error, got %v", err)
	}

	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("AWS_S3_BUCKET_NAME", "")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "AWS_S3_BUCKET_NAME") {
		t.Errorf("expected AWS_S3_BUCKET_NAME error, got %v", err)
	}
}

func TestLoadMalformedValues(t *testing.T) {
	cases := []struct {
		key   string
		value string
	}{
		{"QUEUE_VISIBILITY_TIMEOUT", "five minutes"},
		{"QUEUE_RETENTION_PERIOD", "96"},
		{"QUEUE_MAX_DELIVERY_ATTEMPTS", "many"},
		{"JOB_TIMEOUT", "soon"},
		{"SCRATCH_CEILING_BYTES", "6GiB"},
		{"WORKER_CONCURRENCY", "1.5"},
	}
	for _, c := range cases {
		t.Run(c.key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(c.key, c.value)
			if _, err := Load(); err == nil || !strings.Contains(err.Error(), c.key) {
				t.Errorf("expected error naming %s, got %v", c.key, err)
			}
		})
	}
}

func TestLoadRejectsNonPositiveBounds(t *testing.T) {
	cases := []struct {
		key   string
		value string
	}{
		{"QUEUE_MAX_DELIVERY_ATTEMPTS", "0"},
		{"WORKER_CONCURRENCY", "0"},
		{"SCRATCH_CEILING_BYTES", "-1"},
	}
	for _, c := range cases {
		t.Run(c.key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(c.key, c.value)
			if _, err := Load(); err == nil || !strings.Contains(err.Error(), c.key) {
				t.Errorf("expected error naming %s, got %v", c.key, err)
			}
		})
	}
}
