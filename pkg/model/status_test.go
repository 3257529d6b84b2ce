package model

import "testing"

func TestBookingStatus_Transitions(t *testing.T) {
	all := []BookingStatus{BookingPending, BookingConfirmed, BookingRejected, BookingCancelled}
	allowed := map[BookingStatus]map[BookingStatus]bool{
		BookingPending: {BookingConfirmed: true, BookingRejected: true, BookingCancelled: true},
	}

	for _, from := range all {
		for _, to := range all {
			if got, want := from.CanTransitionTo(to), allowed[from][to]; got != want {
				t.Errorf("%s -> %s = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestParseBookingStatus(t *testing.T) {
	if s, ok := ParseBookingStatus(" Confirmed "); !ok || s != BookingConfirmed {
		t.Errorf("got %q, %v", s, ok)
	}
	if _, ok := ParseBookingStatus("archived"); ok {
		t.Error("archived should not parse")
	}
	if !BookingPending.IsBlocking() || !BookingConfirmed.IsBlocking() {
		t.Error("pending and confirmed must block")
	}
	if BookingRejected.IsBlocking() || BookingCancelled.IsBlocking() {
		t.Error("rejected and cancelled must not block")
	}
}

func TestExchangeStatus(t *testing.T) {
	if !ExchangePending.CanTransitionTo(ExchangeApproved) || !ExchangePending.CanTransitionTo(ExchangeRejected) {
		t.Error("pending must reach both terminal states")
	}
	for _, terminal := range []ExchangeStatus{ExchangeApproved, ExchangeRejected} {
		if !terminal.IsDecided() {
			t.Errorf("%s should be decided", terminal)
		}
		for _, next := range []ExchangeStatus{ExchangePending, ExchangeApproved, ExchangeRejected} {
			if terminal.CanTransitionTo(next) {
				t.Errorf("%s -> %s should be refused", terminal, next)
			}
		}
	}
}

func TestExchangeAction(t *testing.T) {
	tests := []struct {
		in        string
		valid     bool
		target    ExchangeStatus
		hasTarget bool
	}{
		{"approve", true, ExchangeApproved, true},
		{"REJECT", true, ExchangeRejected, true},
		{"share_contacts", true, "", false},
		{"accept", false, "", false},
	}

	for _, tt := range tests {
		action, ok := ParseExchangeAction(tt.in)
		if ok != tt.valid {
			t.Errorf("ParseExchangeAction(%q) ok = %v, want %v", tt.in, ok, tt.valid)
			continue
		}
		target, has := action.TargetStatus()
		if has != tt.hasTarget || target != tt.target {
			t.Errorf("%q TargetStatus() = %q, %v", tt.in, target, has)
		}
	}
}

func TestContactFromUser(t *testing.T) {
	phone := "+14155550100"
	got := ContactFromUser(&User{FullName: "Ada", Email: "ada@example.com", Phone: &phone})
	want := ContactInfo{Name: "Ada", Phone: phone, Email: "ada@example.com"}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if empty := ContactFromUser(nil); !empty.IsEmpty() {
		t.Error("nil user should give an empty contact")
	}
}
