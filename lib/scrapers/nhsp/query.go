package nhsp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel/codes"
)

// searchRequest is the fixed body of the advanced search call. Only
// the dates vary; every filter stays wide open.
type searchRequest struct {
	AssignmentCode              *string  `json:"AssignmentCode"`
	EndDate                     string   `json:"EndDate"`
	HideOverlap                 bool     `json:"HideOverlap"`
	LocationCode                []string `json:"LocationCode"`
	MatchShiftsToMyAvailability bool     `json:"MatchShiftsToMyAvailability"`
	ShiftType                   *string  `json:"ShiftType"`
	StartDate                   string   `json:"StartDate"`
	TrustCode                   []string `json:"TrustCode"`
	WardCode                    []string `json:"WardCode"`
}

const searchScript = `(async () => {
	const res = await fetch(%q, {
		method: 'POST',
		headers: {
			'Content-Type': 'application/json',
			'Authorization': %q,
		},
		body: JSON.stringify(%s),
	});
	if (!res.ok) {
		throw new Error('shift search returned status ' + res.status);
	}
	return await res.json();
})()`

// FetchShifts POSTs the advanced search from inside the page's own JS
// context, so the browser's cookies and networking are reused. The
// captured credential rides along as the Authorization header.
func (s *Session) FetchShifts(ctx context.Context, rng DateRange) (*ShiftsResponse, error) {
	ctx, span := tracer.Start(ctx, "FetchShifts")
	defer span.End()

	credential, ok := s.creds.Get()
	if !ok {
		span.SetStatus(codes.Error, ErrCredentialMissing.Error())
		return nil, ErrCredentialMissing
	}

	body, err := json.Marshal(searchRequest{
		AssignmentCode:              nil,
		EndDate:                     rng.EndParam(),
		HideOverlap:                 true,
		LocationCode:                []string{},
		MatchShiftsToMyAvailability: false,
		ShiftType:                   nil,
		StartDate:                   rng.StartParam(),
		TrustCode:                   []string{},
		WardCode:                    []string{},
	})
	if err != nil {
		return nil, err
	}

	script := fmt.Sprintf(searchScript, s.cfg.SearchEndpoint, credential, body)

	var resp ShiftsResponse
	err = chromedp.Run(s.tabCtx, chromedp.Evaluate(
		script, &resp,
		func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		},
	))
	if err != nil {
		span.SetStatus(codes.Error, "shift search failed")
		span.RecordError(err)
		return nil, fmt.Errorf("shift search: %w", err)
	}

	return &resp, nil
}
