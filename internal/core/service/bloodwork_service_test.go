package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/habitcoach/coaching-system/internal/core/domain"
	"github.com/habitcoach/coaching-system/internal/core/ports"
)

func TestBloodworkUpload_Validation(t *testing.T) {
	records := newSeededStore(t)
	svc := NewBloodworkService(records, records, "https://blob.example/bloodwork", zerolog.Nop())
	ctx := context.Background()

	base := ports.UploadBloodworkInput{
		ActorID:      "client-1",
		TargetUserID: "client-1",
		FileName:     "labs.pdf",
		FileType:     "application/pdf",
		FileSize:     1024,
	}

	cases := []struct {
		name   string
		mutate func(*ports.UploadBloodworkInput)
	}{
		{"missing file name", func(in *ports.UploadBloodworkInput) { in.FileName = "" }},
		{"executable mime", func(in *ports.UploadBloodworkInput) { in.FileType = "application/x-msdownload" }},
		{"zero size", func(in *ports.UploadBloodworkInput) { in.FileSize = 0 }},
		{"oversized", func(in *ports.UploadBloodworkInput) { in.FileSize = domain.MaxBloodworkSize + 1 }},
	}
	for _, tc := range cases {
		in := base
		tc.mutate(&in)
		if _, err := svc.Upload(ctx, in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
}

func TestBloodworkUpload_GeneratesReferenceURL(t *testing.T) {
	records := newSeededStore(t)
	svc := NewBloodworkService(records, records, "https://blob.example/bloodwork", zerolog.Nop())

	doc, err := svc.Upload(context.Background(), ports.UploadBloodworkInput{
		ActorID:      "admin-1",
		TargetUserID: "client-1",
		FileName:     "labs.pdf",
		FileType:     "application/pdf",
		FileSize:     2048,
		Notes:        "fasting panel",
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(doc.FileURL, "https://blob.example/bloodwork/client-1/") {
		t.Fatalf("unexpected reference URL: %q", doc.FileURL)
	}
	if doc.UserID != "client-1" || doc.Notes != "fasting panel" {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestBloodworkList_AccessControl(t *testing.T) {
	records := newSeededStore(t)
	svc := NewBloodworkService(records, records, "https://blob.example/bloodwork", zerolog.Nop())
	ctx := context.Background()

	stranger, err := records.CreateUser(ctx, ports.NewUserInput{
		Name: "Stranger", PhoneNumber: "+43", Role: domain.RoleClient, PasswordHash: "h",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if _, err := svc.List(ctx, stranger.ID, "client-1"); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}

	docs, err := svc.List(ctx, "admin-1", "client-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected no documents yet, got %d", len(docs))
	}
}
