package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/Nonita16/viral-events-app/models"
	"github.com/google/uuid"
)

func TestCreateReferralCode(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db, nil)
	_, token := createTestUser(t, db, "issuer")

	w := performRequest(r, "POST", "/api/v1/referrals", token, nil)
	assertStatus(t, w, http.StatusCreated)

	body := decodeBody(t, w)
	created, ok := body["referralCode"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected referralCode object, got %v", body)
	}
	code, _ := created["code"].(string)
	if len(code) != models.ReferralCodeLength {
		t.Fatalf("expected %d-character code, got %q", models.ReferralCodeLength, code)
	}

	// A second call returns the same code with 200 instead of minting a new
	// one.
	w = performRequest(r, "POST", "/api/v1/referrals", token, nil)
	assertStatus(t, w, http.StatusOK)
	body = decodeBody(t, w)
	existing := body["referralCode"].(map[string]interface{})
	if existing["code"] != code {
		t.Fatalf("expected existing code %q, got %q", code, existing["code"])
	}

	var count int64
	db.Model(&models.ReferralCode{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 referral code row, got %d", count)
	}
}

func TestCreateReferralCodeRequiresFullAccount(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db, nil)
	_, token := createAnonymousUser(t, db, "guest_abc")

	w := performRequest(r, "POST", "/api/v1/referrals", token, nil)
	assertStatus(t, w, http.StatusUnauthorized)

	w = performRequest(r, "POST", "/api/v1/referrals", "", nil)
	assertStatus(t, w, http.StatusUnauthorized)
}

func TestGetReferralCode(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db, nil)
	user, _ := createTestUser(t, db, "issuer")
	event := createTestEvent(t, db, user.ID, "Launch Party")

	code := models.ReferralCode{Code: "TESTCODE", EventID: &event.ID, CreatedBy: user.ID}
	if err := db.Create(&code).Error; err != nil {
		t.Fatalf("failed to seed referral code: %v", err)
	}

	w := performRequest(r, "GET", "/api/v1/referrals/TESTCODE", "", nil)
	assertStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	got := body["referralCode"].(map[string]interface{})
	if got["code"] != "TESTCODE" {
		t.Fatalf("expected code TESTCODE, got %v", got["code"])
	}
	if got["event"] == nil {
		t.Fatal("expected event to be preloaded")
	}

	w = performRequest(r, "GET", "/api/v1/referrals/NOPE", "", nil)
	assertStatus(t, w, http.StatusNotFound)
}

func TestRegisterViaReferral(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db, nil)
	owner, _ := createTestUser(t, db, "owner")
	event := createTestEvent(t, db, owner.ID, "Launch Party")

	code := models.ReferralCode{Code: "TESTCODE", EventID: &event.ID, CreatedBy: owner.ID}
	if err := db.Create(&code).Error; err != nil {
		t.Fatalf("failed to seed referral code: %v", err)
	}

	redeemer, token := createTestUser(t, db, "redeemer")

	w := performRequest(r, "POST", "/api/v1/referrals/TESTCODE/register", token, nil)
	assertStatus(t, w, http.StatusCreated)

	body := decodeBody(t, w)
	if body["success"] != true {
		t.Fatalf("expected success true, got %v", body)
	}
	rsvp := body["rsvp"].(map[string]interface{})
	if rsvp["status"] != models.RSVPGoing {
		t.Fatalf("expected auto-RSVP status going, got %v", rsvp["status"])
	}
	if uint(rsvp["event_id"].(float64)) != event.ID {
		t.Fatalf("expected rsvp for event %d, got %v", event.ID, rsvp["event_id"])
	}
	if uint(rsvp["user_id"].(float64)) != redeemer.ID {
		t.Fatalf("expected rsvp for user %d, got %v", redeemer.ID, rsvp["user_id"])
	}
}

func TestRegisterViaReferralIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db, nil)
	owner, _ := createTestUser(t, db, "owner")
	event := createTestEvent(t, db, owner.ID, "Launch Party")

	code := models.ReferralCode{Code: "TESTCODE", EventID: &event.ID, CreatedBy: owner.ID}
	if err := db.Create(&code).Error; err != nil {
		t.Fatalf("failed to seed referral code: %v", err)
	}

	_, token := createTestUser(t, db, "redeemer")

	first := performRequest(r, "POST", "/api/v1/referrals/TESTCODE/register", token, nil)
	assertStatus(t, first, http.StatusCreated)

	second := performRequest(r, "POST", "/api/v1/referrals/TESTCODE/register", token, nil)
	assertStatus(t, second, http.StatusCreated)

	var registrations int64
	db.Model(&models.ReferralRegistration{}).Count(&registrations)
	if registrations != 1 {
		t.Fatalf("expected 1 registration row after double redemption, got %d", registrations)
	}

	var rsvps int64
	db.Model(&models.RSVP{}).Count(&rsvps)
	if rsvps != 1 {
		t.Fatalf("expected 1 rsvp row after double redemption, got %d", rsvps)
	}

	body := decodeBody(t, second)
	rsvp := body["rsvp"].(map[string]interface{})
	if rsvp["status"] != models.RSVPGoing {
		t.Fatalf("expected status to stay going, got %v", rsvp["status"])
	}
}

func TestRegisterViaReferralUnknownCode(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db, nil)
	_, token := createTestUser(t, db, "redeemer")

	w := performRequest(r, "POST", "/api/v1/referrals/NOPE/register", token, nil)
	assertStatus(t, w, http.StatusNotFound)

	w = performRequest(r, "POST", "/api/v1/referrals/NOPE/register", "", nil)
	assertStatus(t, w, http.StatusUnauthorized)
}

func TestRegisterViaReferralWithoutEvent(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db, nil)
	owner, _ := createTestUser(t, db, "owner")

	code := models.ReferralCode{Code: "USERCODE99", CreatedBy: owner.ID}
	if err := db.Create(&code).Error; err != nil {
		t.Fatalf("failed to seed referral code: %v", err)
	}

	_, token := createTestUser(t, db, "redeemer")

	w := performRequest(r, "POST", "/api/v1/referrals/USERCODE99/register", token, nil)
	assertStatus(t, w, http.StatusCreated)

	var rsvps int64
	db.Model(&models.RSVP{}).Count(&rsvps)
	if rsvps != 0 {
		t.Fatalf("expected no rsvp for an event-less code, got %d", rsvps)
	}
}

func TestTrackClickAnonymousSession(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db, nil)
	owner, _ := createTestUser(t, db, "owner")

	code := models.ReferralCode{Code: "TESTCODE", CreatedBy: owner.ID}
	if err := db.Create(&code).Error; err != nil {
		t.Fatalf("failed to seed referral code: %v", err)
	}

	anon, token := createAnonymousUser(t, db, "guest_xyz")

	w := performRequest(r, "POST", "/api/v1/referrals/track-click", token,
		map[string]string{"code": "TESTCODE"})
	assertStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	if body["message"] != "Click tracked successfully" {
		t.Fatalf("unexpected message %v", body["message"])
	}

	var click models.ReferralClick
	if err := db.First(&click).Error; err != nil {
		t.Fatalf("expected a click row: %v", err)
	}
	if click.AnonUserID != anon.UUID {
		t.Fatalf("expected click attributed to %s, got %s", anon.UUID, click.AnonUserID)
	}

	// Second click from the same identity is a no-op.
	w = performRequest(r, "POST", "/api/v1/referrals/track-click", token,
		map[string]string{"code": "TESTCODE"})
	assertStatus(t, w, http.StatusOK)
	body = decodeBody(t, w)
	if body["message"] != "Click already tracked" {
		t.Fatalf("unexpected message %v", body["message"])
	}

	var count int64
	db.Model(&models.ReferralClick{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 click row, got %d", count)
	}
}

func TestTrackClickClientSuppliedIdentity(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db, nil)
	owner, _ := createTestUser(t, db, "owner")

	code := models.ReferralCode{Code: "TESTCODE", CreatedBy: owner.ID}
	if err := db.Create(&code).Error; err != nil {
		t.Fatalf("failed to seed referral code: %v", err)
	}

	// No session at all: the client-supplied id carries the attribution.
	anonID := uuid.NewString()
	w := performRequest(r, "POST", "/api/v1/referrals/track-click", "",
		map[string]string{"code": "TESTCODE", "anon_user_id": anonID})
	assertStatus(t, w, http.StatusOK)

	var click models.ReferralClick
	if err := db.First(&click).Error; err != nil {
		t.Fatalf("expected a click row: %v", err)
	}
	if click.AnonUserID != anonID {
		t.Fatalf("expected click attributed to %s, got %s", anonID, click.AnonUserID)
	}
}

func TestTrackClickValidation(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db, nil)

	// Missing code.
	w := performRequest(r, "POST", "/api/v1/referrals/track-click", "",
		map[string]string{"anon_user_id": uuid.NewString()})
	assertStatus(t, w, http.StatusBadRequest)

	// Malformed candidate identity.
	w = performRequest(r, "POST", "/api/v1/referrals/track-click", "",
		map[string]string{"code": "TESTCODE", "anon_user_id": "not-a-uuid"})
	assertStatus(t, w, http.StatusBadRequest)

	// No identity at all.
	w = performRequest(r, "POST", "/api/v1/referrals/track-click", "",
		map[string]string{"code": "TESTCODE"})
	assertStatus(t, w, http.StatusBadRequest)
}

func TestTrackClickUnknownCode(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db, nil)

	w := performRequest(r, "POST", "/api/v1/referrals/track-click", "",
		map[string]string{"code": "NOPE", "anon_user_id": uuid.NewString()})
	assertStatus(t, w, http.StatusNotFound)
}

func TestTrackClickRegisteredUserNoOp(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db, nil)
	owner, _ := createTestUser(t, db, "owner")

	code := models.ReferralCode{Code: "TESTCODE", CreatedBy: owner.ID}
	if err := db.Create(&code).Error; err != nil {
		t.Fatalf("failed to seed referral code: %v", err)
	}

	_, token := createTestUser(t, db, "member")

	w := performRequest(r, "POST", "/api/v1/referrals/track-click", token,
		map[string]string{"code": "TESTCODE"})
	assertStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	if body["message"] != "Click not tracked - user already registered" {
		t.Fatalf("unexpected message %v", body["message"])
	}

	var count int64
	db.Model(&models.ReferralClick{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no click rows for a registered user, got %d", count)
	}
}

func TestAnalyticsWithoutCode(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db, nil)
	_, token := createTestUser(t, db, "issuer")

	w := performRequest(r, "GET", "/api/v1/referrals/analytics", token, nil)
	assertStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	if body["totalClicks"].(float64) != 0 || body["totalSignups"].(float64) != 0 || body["totalConversion"].(float64) != 0 {
		t.Fatalf("expected zeroed analytics, got %v", body)
	}
}

func TestAnalyticsConversionGuard(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db, nil)
	issuer, token := createTestUser(t, db, "issuer")

	code := models.ReferralCode{Code: "TESTCODE", CreatedBy: issuer.ID}
	if err := db.Create(&code).Error; err != nil {
		t.Fatalf("failed to seed referral code: %v", err)
	}

	// Signups without any clicks must not divide by zero.
	other, _ := createTestUser(t, db, "other")
	reg := models.ReferralRegistration{ReferralCodeID: code.ID, UserID: other.ID}
	if err := db.Create(&reg).Error; err != nil {
		t.Fatalf("failed to seed registration: %v", err)
	}

	w := performRequest(r, "GET", "/api/v1/referrals/analytics", token, nil)
	assertStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	if body["totalSignups"].(float64) != 1 {
		t.Fatalf("expected 1 signup, got %v", body["totalSignups"])
	}
	if body["totalConversion"].(float64) != 0 {
		t.Fatalf("expected conversion 0 with no clicks, got %v", body["totalConversion"])
	}
}

func TestAnalyticsByEvent(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db, nil)
	owner, ownerToken := createTestUser(t, db, "owner")
	event := createTestEvent(t, db, owner.ID, "Launch Party")

	code := models.ReferralCode{Code: "TESTCODE", EventID: &event.ID, CreatedBy: owner.ID}
	if err := db.Create(&code).Error; err != nil {
		t.Fatalf("failed to seed referral code: %v", err)
	}

	for i := 0; i < 4; i++ {
		click := models.ReferralClick{ReferralCodeID: code.ID, AnonUserID: uuid.NewString()}
		if err := db.Create(&click).Error; err != nil {
			t.Fatalf("failed to seed click: %v", err)
		}
	}
	redeemer, _ := createTestUser(t, db, "redeemer")
	reg := models.ReferralRegistration{ReferralCodeID: code.ID, UserID: redeemer.ID, EventID: &event.ID}
	if err := db.Create(&reg).Error; err != nil {
		t.Fatalf("failed to seed registration: %v", err)
	}

	path := fmt.Sprintf("/api/v1/referrals/analytics/%d", event.ID)
	w := performRequest(r, "GET", path, ownerToken, nil)
	assertStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)
	if body["totalClicks"].(float64) != 4 {
		t.Fatalf("expected 4 clicks, got %v", body["totalClicks"])
	}
	if body["totalSignups"].(float64) != 1 {
		t.Fatalf("expected 1 signup, got %v", body["totalSignups"])
	}
	if body["totalConversion"].(float64) != 25 {
		t.Fatalf("expected conversion 25, got %v", body["totalConversion"])
	}

	// Not the event owner.
	_, otherToken := createTestUser(t, db, "stranger")
	w = performRequest(r, "GET", path, otherToken, nil)
	assertStatus(t, w, http.StatusForbidden)
}

func TestReferralCodesByEvent(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db, nil)
	owner, _ := createTestUser(t, db, "owner")
	event := createTestEvent(t, db, owner.ID, "Launch Party")

	code := models.ReferralCode{Code: "TESTCODE", EventID: &event.ID, CreatedBy: owner.ID}
	if err := db.Create(&code).Error; err != nil {
		t.Fatalf("failed to seed referral code: %v", err)
	}

	w := performRequest(r, "GET", fmt.Sprintf("/api/v1/referrals/event/%d", event.ID), "", nil)
	assertStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	codes := body["referralCodes"].([]interface{})
	if len(codes) != 1 {
		t.Fatalf("expected 1 code, got %d", len(codes))
	}
}
