package validation

import "testing"

type contactProbe struct {
	Tier  int    `validate:"omitempty,tier"`
	Phone string `validate:"omitempty,phone"`
	Date  string `validate:"omitempty,date"`
}

type dealProbe struct {
	Stage        string `validate:"omitempty,dealstage"`
	ReferralType string `validate:"omitempty,referraltype"`
}

type touchpointProbe struct {
	Type    string `validate:"omitempty,touchpointtype"`
	Outcome string `validate:"omitempty,touchoutcome"`
}

type memberProbe struct {
	Role string `validate:"omitempty,memberrole"`
}

func TestCustomTags(t *testing.T) {
	v := New()

	cases := []struct {
		name    string
		payload interface{}
		wantErr bool
	}{
		{"tier in range", contactProbe{Tier: 2}, false},
		{"tier too high", contactProbe{Tier: 4}, true},
		{"phone ok", contactProbe{Phone: "+15551234567"}, false},
		{"phone letters", contactProbe{Phone: "call-me"}, true},
		{"date ok", contactProbe{Date: "2026-03-11"}, false},
		{"date bad format", contactProbe{Date: "03/11/2026"}, true},
		{"stage known", dealProbe{Stage: "proposal-delivered"}, false},
		{"stage unknown", dealProbe{Stage: "negotiation"}, true},
		{"referral type known", dealProbe{ReferralType: "warm_intro"}, false},
		{"referral type unknown", dealProbe{ReferralType: "friend"}, true},
		{"touchpoint type known", touchpointProbe{Type: "meeting"}, false},
		{"touchpoint type unknown", touchpointProbe{Type: "fax"}, true},
		{"outcome known", touchpointProbe{Outcome: "needs-follow-up"}, false},
		{"outcome unknown", touchpointProbe{Outcome: "great"}, true},
		{"role known", memberProbe{Role: "PSM"}, false},
		{"role unknown", memberProbe{Role: "CEO"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.payload)
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error for %+v", tc.payload)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error for %+v: %v", tc.payload, err)
			}
		})
	}
}

func TestValidationErrorsExtraction(t *testing.T) {
	v := New()
	err := v.Struct(contactProbe{Tier: 9})
	if err == nil {
		t.Fatal("expected error")
	}
	ve := v.ValidationErrors(err)
	if len(ve) != 1 {
		t.Fatalf("expected one field error, got %d", len(ve))
	}
	if ve[0].Tag() != "tier" {
		t.Fatalf("unexpected tag %q", ve[0].Tag())
	}
}
