package booking

import "testing"

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"BOOKED", "IN_PROGRESS", "WAITING_FOR_PARTS", "COMPLETED", "DELIVERED"} {
		if _, err := ParseStatus(s); err != nil {
			t.Fatalf("ParseStatus(%q): %v", s, err)
		}
	}
	if _, err := ParseStatus("CANCELLED"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
	if _, err := ParseStatus("booked"); err == nil {
		t.Fatalf("status parsing must be case sensitive")
	}
}

func TestCanTransition_AllowedPairs(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusBooked, StatusInProgress},
		{StatusBooked, StatusWaitingForParts},
		{StatusBooked, StatusCompleted},
		{StatusInProgress, StatusWaitingForParts},
		{StatusInProgress, StatusCompleted},
		{StatusWaitingForParts, StatusInProgress},
		{StatusWaitingForParts, StatusCompleted},
		{StatusCompleted, StatusDelivered},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}
}

func TestCanTransition_EverythingElseRejected(t *testing.T) {
	all := []Status{StatusBooked, StatusInProgress, StatusWaitingForParts, StatusCompleted, StatusDelivered}
	allowed := map[Status]map[Status]bool{
		StatusBooked:          {StatusInProgress: true, StatusWaitingForParts: true, StatusCompleted: true},
		StatusInProgress:      {StatusWaitingForParts: true, StatusCompleted: true},
		StatusWaitingForParts: {StatusInProgress: true, StatusCompleted: true},
		StatusCompleted:       {StatusDelivered: true},
		StatusDelivered:       {},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestCanTransition_DeliveredIsTerminal(t *testing.T) {
	for _, to := range []Status{StatusBooked, StatusInProgress, StatusWaitingForParts, StatusCompleted, StatusDelivered} {
		if CanTransition(StatusDelivered, to) {
			t.Errorf("DELIVERED -> %s must be rejected", to)
		}
	}
}

func TestFeedbackEligible(t *testing.T) {
	cases := []struct {
		status Status
		want   bool
	}{
		{StatusBooked, false},
		{StatusInProgress, false},
		{StatusWaitingForParts, false},
		{StatusCompleted, true},
		{StatusDelivered, true},
	}
	for _, tc := range cases {
		if got := FeedbackEligible(tc.status); got != tc.want {
			t.Errorf("FeedbackEligible(%s) = %v, want %v", tc.status, got, tc.want)
		}
	}
}
