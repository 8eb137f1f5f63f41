// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/laureate/internal/nomination"
	"github.com/taibuivan/laureate/internal/platform/constants"
	"github.com/taibuivan/laureate/internal/platform/respond"
	"github.com/taibuivan/laureate/internal/platform/sec"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	command := newRootCommand()
	out := &bytes.Buffer{}
	command.SetOut(out)
	command.SetErr(out)
	command.SetArgs(args)

	err := command.Execute()
	return out.String(), err
}

func draftFile(t *testing.T, mutate func(map[string]any)) string {
	t.Helper()

	draft := map[string]any{
		"nominee": map[string]any{
			"firstName":   "Amina",
			"lastName":    "Wanjiru",
			"dateOfBirth": time.Now().AddDate(-16, 0, -3).Format(nomination.DateLayout),
			"gender":      "female",
			"email":       "amina@example.org",
			"phone":       "+254712345678",
			"nationality": "citizen",
			"location":    map[string]any{"county": "Nakuru"},
			"school":      map[string]any{"name": "Naivasha Girls", "level": "senior_secondary"},
		},
		"nominator":       map[string]any{"isSelfNomination": true},
		"awardCategory":   "Leadership",
		"shortBio":        "Student council president.",
		"achievements":    "Started a peer tutoring programme.",
		"impact":          strings.TrimSpace(strings.Repeat("tutoring ", 305)),
		"whyDeserveAward": "Lifts her whole class.",
		"referee":         map[string]any{"name": "Grace Muthoni", "email": "grace@example.org", "relationship": "teacher"},
		"consent": map[string]any{
			"accurateInformation": true, "nomineePermission": true, "publicRecognition": true,
			"backgroundCheck": true, "dataUsage": true, "antiFraudDeclaration": true,
		},
	}
	if mutate != nil {
		mutate(draft)
	}

	encoded, err := json.Marshal(draft)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "draft.json")
	require.NoError(t, os.WriteFile(path, encoded, 0o600))
	return path
}

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR")

func TestSubmitCommand(t *testing.T) {
	var received int
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		received++
		assert.Equal(t, "/api/v1/nominations", request.URL.Path)
		respond.JSON(writer, http.StatusCreated, nomination.Receipt{
			SubmissionID: "NOM-20260615103000-ABCDEF",
			Status:       nomination.StatusSubmitted,
			Storage:      nomination.StorageReport{Primary: false, Backup: true},
		})
	}))
	defer server.Close()

	output, err := run(t, "submit",
		"--api", server.URL+"/api/v1",
		"--draft", draftFile(t, nil),
		"--photo", writeFile(t, "amina.png", pngBytes),
		"--doc", writeFile(t, "letter.pdf", []byte("%PDF-1.7")),
		"--preview-dir", t.TempDir(),
	)
	require.NoError(t, err, output)

	assert.Equal(t, 1, received)
	assert.Contains(t, output, "✓ step 7 Consent")
	assert.Contains(t, output, "Submitted NOM-20260615103000-ABCDEF")
	assert.Contains(t, output, "degraded durability")
}

func TestSubmitCommand_SetOverrides(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		var draft nomination.Draft
		if assert.NoError(t, request.ParseMultipartForm(1<<20)) {
			assert.NoError(t, json.Unmarshal([]byte(request.FormValue("nomination")), &draft))
		}
		assert.Equal(t, "grace.muthoni@example.org", draft.Referee.Email)
		assert.True(t, draft.Consent.DataUsage)

		respond.JSON(writer, http.StatusCreated, nomination.Receipt{
			SubmissionID: "NOM-20260615103000-ABCDEF",
			Status:       nomination.StatusSubmitted,
			Storage:      nomination.StorageReport{Primary: true, Backup: true},
		})
	}))
	defer server.Close()

	path := draftFile(t, func(draft map[string]any) {
		draft["referee"].(map[string]any)["email"] = ""
		draft["consent"].(map[string]any)["dataUsage"] = false
	})

	output, err := run(t, "submit", "--api", server.URL, "--draft", path,
		"--photo", writeFile(t, "amina.png", pngBytes),
		"--set", "referee.email=grace.muthoni@example.org",
		"--set", "consent.dataUsage=true",
	)
	require.NoError(t, err, output)
	assert.Contains(t, output, "Submitted NOM-20260615103000-ABCDEF")

	t.Run("derived_field_rejected", func(t *testing.T) {
		_, err := run(t, "submit", "--draft", draftFile(t, nil), "--set", "nominee.age=20")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nominee.age")
	})

	t.Run("missing_equals", func(t *testing.T) {
		_, err := run(t, "submit", "--draft", draftFile(t, nil), "--set", "referee.email")
		assert.ErrorContains(t, err, "expected path=value")
	})
}

func TestSubmitCommand_IncompleteStep(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		t.Error("nothing may be sent for an incomplete draft")
	}))
	defer server.Close()

	path := draftFile(t, func(draft map[string]any) {
		draft["impact"] = "Too short."
	})

	output, err := run(t, "submit", "--api", server.URL, "--draft", path, "--photo", writeFile(t, "amina.png", pngBytes))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 4")
	assert.Contains(t, output, "impact: Minimum 300 words (currently 2)")
}

func TestSubmitCommand_RejectedFile(t *testing.T) {
	_, err := run(t, "submit", "--draft", draftFile(t, nil), "--photo", writeFile(t, "notes.txt", []byte("plain text")))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "notes.txt rejected (type)")
}

func TestStatusCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/nominations/status/NOM-20260615103000-ABCDEF", request.URL.Path)
		respond.JSON(writer, http.StatusOK, nomination.StatusView{
			SubmissionID:  "NOM-20260615103000-ABCDEF",
			Status:        nomination.StatusUnderReview,
			ReviewStatus:  nomination.ReviewPending,
			Message:       nomination.StatusMessage(nomination.StatusUnderReview, nomination.ReviewPending),
			AwardCategory: "Leadership",
		})
	}))
	defer server.Close()

	output, err := run(t, "status", "NOM-20260615103000-ABCDEF", "--api", server.URL)
	require.NoError(t, err)
	assert.Contains(t, output, "status:    under-review")
	assert.Contains(t, output, "category:  Leadership")
}

func TestReviewCommand_RequiresToken(t *testing.T) {
	t.Setenv("LAUREATE_TOKEN", "")
	_, err := run(t, "review", "NOM-1", "--status", "approved")
	assert.ErrorContains(t, err, "reviewer token is required")
}

func TestReviewCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/admin/nominations/NOM-20260615103000-ABCDEF/review", request.URL.Path)
		assert.Equal(t, "Bearer reviewer-token", request.Header.Get("Authorization"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Equal(t, float64(0), body["score"], "an explicit zero score is sent")
		assert.Nil(t, body["notes"])

		respond.OK(writer, nomination.Nomination{
			SubmissionID: "NOM-20260615103000-ABCDEF",
			AdminReview:  nomination.AdminReview{Reviewed: true, Status: nomination.ReviewRejected},
		})
	}))
	defer server.Close()

	output, err := run(t, "review", "NOM-20260615103000-ABCDEF",
		"--api", server.URL, "--token", "reviewer-token", "--status", "rejected", "--score", "0")
	require.NoError(t, err, output)
	assert.Contains(t, output, "NOM-20260615103000-ABCDEF review is now rejected")
}

func TestTokenCommand(t *testing.T) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privateKey)})
	keyPath := writeFile(t, "reviewer.pem", keyPEM)

	output, err := run(t, "token", "--private-key", keyPath, "--user", "u-17", "--role", "admin")
	require.NoError(t, err)

	verifier := sec.NewTokenService(nil, &privateKey.PublicKey, constants.AuthIssuer)
	claims, err := verifier.VerifyToken(strings.TrimSpace(output))
	require.NoError(t, err)
	assert.Equal(t, "u-17", claims.UserID)
	assert.True(t, claims.HasRole(sec.RoleAdmin))

	_, err = run(t, "token", "--private-key", keyPath, "--user", "u-17", "--role", "superuser")
	assert.ErrorContains(t, err, "unknown role")
}
