package tools

import "context"

// Service provides typed wrappers around the well-known DoWhistle tools.
type Service struct {
	inv *Invoker
}

// NewService wraps an invoker.
func NewService(inv *Invoker) *Service {
	return &Service{inv: inv}
}

// SearchProviders searches for provider Whistlers near a coordinate.
// An empty keyword searches unfiltered.
func (s *Service) SearchProviders(ctx context.Context, lat, lon float64, keyword string, radius float64, limit int) ResultEnvelope {
	args := map[string]any{
		"latitude":  lat,
		"longitude": lon,
		"radius":    radius,
		"limit":     limit,
	}
	if keyword != "" {
		args["keyword"] = keyword
	}
	return s.inv.Invoke(ctx, ToolSearchBusinesses, args)
}

// SignIn starts phone-number sign-in; the server responds with the user record
// and sends an OTP out of band.
func (s *Service) SignIn(ctx context.Context, phone, countryCode string) ResultEnvelope {
	args := map[string]any{"phone": phone}
	if countryCode != "" {
		args["countryCode"] = countryCode
	}
	return s.inv.Invoke(ctx, ToolSignIn, args)
}

// VerifyOtp exchanges an OTP for an access token.
func (s *Service) VerifyOtp(ctx context.Context, phone, otp string) ResultEnvelope {
	return s.inv.Invoke(ctx, ToolVerifyOtp, map[string]any{"phone": phone, "otp": otp})
}

// ResendOtp asks the server to resend the OTP.
func (s *Service) ResendOtp(ctx context.Context, phone string) ResultEnvelope {
	return s.inv.Invoke(ctx, ToolResendOtp, map[string]any{"phone": phone})
}

// CreateWhistle posts a Whistle (a need or an offer).
func (s *Service) CreateWhistle(ctx context.Context, whistleType string, tags []string, description string, alertRadius float64, expiryHours int) ResultEnvelope {
	args := map[string]any{
		"type": whistleType,
		"tags": tags,
	}
	if description != "" {
		args["description"] = description
	}
	if alertRadius > 0 {
		args["alertRadius"] = alertRadius
	}
	if expiryHours > 0 {
		args["expiryHours"] = expiryHours
	}
	return s.inv.Invoke(ctx, ToolCreateWhistle, args)
}

// ListWhistles lists the signed-in user's Whistles.
func (s *Service) ListWhistles(ctx context.Context) ResultEnvelope {
	return s.inv.Invoke(ctx, ToolListWhistles, map[string]any{})
}

// ToggleVisibility toggles a Whistle's visibility.
func (s *Service) ToggleVisibility(ctx context.Context, whistleID string) ResultEnvelope {
	return s.inv.Invoke(ctx, ToolToggleVisibility, map[string]any{"whistleId": whistleID})
}

// GetUserProfile fetches the signed-in user's profile.
func (s *Service) GetUserProfile(ctx context.Context) ResultEnvelope {
	return s.inv.Invoke(ctx, ToolGetUserProfile, map[string]any{})
}
