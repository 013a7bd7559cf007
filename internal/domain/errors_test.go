package domain

import (
	"errors"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *DomainError
		want string
	}{
		{
			name: "error without wrapped error",
			err: &DomainError{
				Code:    ErrCodeNotFound,
				Message: "answer not found",
			},
			want: "[NOT_FOUND] answer not found",
		},
		{
			name: "error with wrapped error",
			err: &DomainError{
				Code:    ErrCodeStoreUnavailable,
				Message: "answer store unavailable",
				Err:     errors.New("database is locked"),
			},
			want: "[STORE_UNAVAILABLE] answer store unavailable: database is locked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("DomainError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	inner := errors.New("inner error")
	err := &DomainError{
		Code:    "TEST",
		Message: "outer error",
		Err:     inner,
	}

	if !errors.Is(err, inner) {
		t.Error("DomainError.Unwrap() should allow errors.Is to find inner error")
	}
}

func TestNoMatchError(t *testing.T) {
	err := NoMatchError("Search jobs", 0.31)

	if err.Code != ErrCodeNoMatch {
		t.Errorf("Code = %s, want %s", err.Code, ErrCodeNoMatch)
	}
	if err.Details["target"] != "Search jobs" {
		t.Errorf("Details[target] = %v, want 'Search jobs'", err.Details["target"])
	}
	if err.Details["best_ratio"] != 0.31 {
		t.Errorf("Details[best_ratio] = %v, want 0.31", err.Details["best_ratio"])
	}
	if !IsNoMatch(err) {
		t.Error("IsNoMatch should return true for NoMatchError")
	}
}

func TestBestRatio(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantRatio float64
		wantOK    bool
	}{
		{
			name:      "no match error carries ratio",
			err:       NoMatchError("City, state, or zip code", 0.42),
			wantRatio: 0.42,
			wantOK:    true,
		},
		{
			name:   "other domain error",
			err:    NotFoundError("answer", "What is your GPA?"),
			wantOK: false,
		},
		{
			name:   "plain error",
			err:    errors.New("boom"),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratio, ok := BestRatio(tt.err)
			if ok != tt.wantOK {
				t.Fatalf("BestRatio() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && ratio != tt.wantRatio {
				t.Errorf("BestRatio() = %v, want %v", ratio, tt.wantRatio)
			}
		})
	}
}

func TestStoreUnavailableError(t *testing.T) {
	cause := errors.New("unable to open database file")
	err := StoreUnavailableError("record answer", cause)

	if err.Code != ErrCodeStoreUnavailable {
		t.Errorf("Code = %s, want %s", err.Code, ErrCodeStoreUnavailable)
	}
	if !IsStoreUnavailable(err) {
		t.Error("IsStoreUnavailable should return true")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the underlying cause")
	}
}

func TestPromptAbortedError(t *testing.T) {
	err := PromptAbortedError("custom_What_s_your_GPA")

	if !IsPromptAborted(err) {
		t.Error("IsPromptAborted should return true for PromptAbortedError")
	}
	if IsPromptAborted(errors.New("random error")) {
		t.Error("IsPromptAborted should return false for non-domain errors")
	}
}

func TestSentinelErrors(t *testing.T) {
	noMatch := NoMatchError("target", 0.1)
	if !errors.Is(noMatch, ErrNoMatchVal) {
		t.Error("NoMatchError should match ErrNoMatchVal with errors.Is")
	}

	ambiguous := AmbiguousChoiceError("Are you authorized to work in the US?", "Yes")
	if !errors.Is(ambiguous, ErrAmbiguousChoiceVal) {
		t.Error("AmbiguousChoiceError should match ErrAmbiguousChoiceVal with errors.Is")
	}

	notFound := NotFoundError("answer", "some question")
	if !errors.Is(notFound, ErrNotFoundVal) {
		t.Error("NotFoundError should match ErrNotFoundVal with errors.Is")
	}
	if errors.Is(notFound, ErrNoMatchVal) {
		t.Error("NotFoundError should not match ErrNoMatchVal")
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "domain error",
			err:  ValidationError("site", "unsupported site"),
			want: ErrCodeValidation,
		},
		{
			name: "wrapped domain error",
			err:  StoreUnavailableError("get answer", errors.New("io error")),
			want: ErrCodeStoreUnavailable,
		},
		{
			name: "plain error",
			err:  errors.New("random error"),
			want: ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorCode(tt.err); got != tt.want {
				t.Errorf("GetErrorCode() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAsDomainError(t *testing.T) {
	domainErr := LoginFailedError("linkedin", errors.New("bad credentials"))

	got, ok := AsDomainError(domainErr)
	if !ok {
		t.Fatal("AsDomainError should succeed for a DomainError")
	}
	if got.Code != ErrCodeLoginFailed {
		t.Errorf("Code = %s, want %s", got.Code, ErrCodeLoginFailed)
	}

	if _, ok := AsDomainError(errors.New("plain")); ok {
		t.Error("AsDomainError should fail for non-domain errors")
	}
}
