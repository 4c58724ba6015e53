package orchestrators

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"strings"

	"directory/internal/adapters/storage"
	memberStore "directory/internal/adapters/storage/member"
	domain "directory/internal/domain/member"
)

// ImportMembersInput carries the parsed CSV reader and import options.
// PRE: Reader is a CSV stream with a header row containing NAME and SURNAME
// POST: Returns aggregate counts and per-row errors; writes are skipped when DryRun=true
// INVARIANT: Existing members are never deleted; IDs are preserved on update
type ImportMembersInput struct {
	Reader     io.Reader
	DryRun     bool
	UpdateMode bool
}

// ImportMembersResult holds aggregate counts and per-row errors from an import run.
type ImportMembersResult struct {
	Total   int                     `json:"total"`
	Created int                     `json:"created"`
	Updated int                     `json:"updated"`
	Skipped int                     `json:"skipped"`
	Errors  []ImportMembersRowError `json:"errors,omitempty"`
	DryRun  bool                    `json:"dry_run"`
	Unknown []string                `json:"unknown_columns,omitempty"`
}

// ImportMembersRowError describes a validation or processing error for a single CSV row.
type ImportMembersRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportMembersDeps holds external dependencies for the import orchestrator.
type ImportMembersDeps struct {
	MemberStore memberStore.Store
	GenerateID  func() string
}

// memberColumns maps normalized CSV headers to the optional Member field they fill.
var memberColumns = map[string]func(*domain.Member) **string{
	"GENDER":              func(m *domain.Member) **string { return &m.Gender },
	"DATE_OF_BIRTH":       func(m *domain.Member) **string { return &m.DateOfBirth },
	"DOB":                 func(m *domain.Member) **string { return &m.DateOfBirth },
	"BLOOD_GROUP":         func(m *domain.Member) **string { return &m.BloodGroup },
	"MARITAL_STATUS":      func(m *domain.Member) **string { return &m.MaritalStatus },
	"MOBILE":              func(m *domain.Member) **string { return &m.Mobile },
	"MOBILE2":             func(m *domain.Member) **string { return &m.Mobile2 },
	"EMAIL":               func(m *domain.Member) **string { return &m.Email },
	"LANDLINE":            func(m *domain.Member) **string { return &m.Landline },
	"RESIDENTIAL_ADDRESS": func(m *domain.Member) **string { return &m.ResidentialAddress },
	"OFFICE_ADDRESS":      func(m *domain.Member) **string { return &m.OfficeAddress },
	"CITY":                func(m *domain.Member) **string { return &m.City },
	"OCCUPATION":          func(m *domain.Member) **string { return &m.Occupation },
	"EDUCATION":           func(m *domain.Member) **string { return &m.Education },
	"FAMILY_NO":           func(m *domain.Member) **string { return &m.FamilyNo },
	"RELATIONSHIP":        func(m *domain.Member) **string { return &m.Relationship },
}

func normalizeHeader(h string) string {
	h = strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}

// ExecuteImportMembers parses a CSV stream and creates or updates member records.
// PRE: Input.Reader contains a CSV with at least NAME and SURNAME columns
// POST: Members are created/updated/skipped according to DryRun and UpdateMode flags;
// existing members are matched by the ID column when present, otherwise by email
// INVARIANT: When DryRun=true no writes occur
func ExecuteImportMembers(ctx context.Context, input ImportMembersInput, deps ImportMembersDeps) (ImportMembersResult, error) {
	cr := csv.NewReader(input.Reader)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return ImportMembersResult{}, &ImportMembersValidationError{Message: "CSV has no header row"}
	}

	colIdx := make(map[string]int, len(header))
	var unknownCols []string
	for i, h := range header {
		col := normalizeHeader(h)
		colIdx[col] = i
		if _, ok := memberColumns[col]; !ok && col != "ID" && col != "NAME" && col != "SURNAME" {
			unknownCols = append(unknownCols, strings.TrimSpace(h))
		}
	}
	for _, required := range []string{"NAME", "SURNAME"} {
		if _, ok := colIdx[required]; !ok {
			return ImportMembersResult{}, &ImportMembersValidationError{Message: "CSV missing required column: " + required}
		}
	}

	getCol := func(row []string, col string) string {
		i, ok := colIdx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	result := ImportMembersResult{DryRun: input.DryRun, Unknown: unknownCols}
	rowNum := 1

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			result.Total++
			result.Errors = append(result.Errors, ImportMembersRowError{Row: rowNum, Message: "malformed row"})
			continue
		}
		if err != nil {
			return result, fmt.Errorf("read csv row %d: %w", rowNum, err)
		}
		result.Total++

		name := getCol(row, "NAME")
		if name == "" {
			result.Errors = append(result.Errors, ImportMembersRowError{Row: rowNum, Message: "name is required"})
			continue
		}

		fields := make(map[string]string, len(memberColumns))
		for col := range memberColumns {
			if v := getCol(row, col); v != "" {
				fields[col] = v
			}
		}
		if raw, ok := fields["EMAIL"]; ok {
			addr, err := mail.ParseAddress(raw)
			if err != nil {
				result.Errors = append(result.Errors, ImportMembersRowError{Row: rowNum, Message: "invalid email: " + raw})
				continue
			}
			fields["EMAIL"] = strings.ToLower(addr.Address)
		}
		if g, ok := fields["GENDER"]; ok {
			fields["GENDER"] = strings.ToLower(g)
		}

		id := getCol(row, "ID")
		existing, exists, err := findExisting(ctx, deps.MemberStore, id, fields["EMAIL"])
		if err != nil {
			slog.Error("members_import_lookup_failed", "row", rowNum, "err", err)
			result.Errors = append(result.Errors, ImportMembersRowError{Row: rowNum, Message: "lookup failed (see server log)"})
			continue
		}
		if exists && !input.UpdateMode {
			result.Skipped++
			continue
		}

		m := existing
		if !exists {
			m = domain.Member{ID: id}
			if m.ID == "" {
				m.ID = deps.GenerateID()
			}
		}
		m.Name = name
		m.Surname = getCol(row, "SURNAME")
		for col, v := range fields {
			*memberColumns[col](&m) = domain.Opt(v)
		}
		if err := m.Validate(); err != nil {
			result.Errors = append(result.Errors, ImportMembersRowError{Row: rowNum, Message: err.Error()})
			continue
		}

		if input.DryRun {
			if exists {
				result.Updated++
			} else {
				result.Created++
			}
			continue
		}
		if err := deps.MemberStore.Save(ctx, m); err != nil {
			slog.Error("members_import_save_failed", "row", rowNum, "id", m.ID, "err", err)
			result.Errors = append(result.Errors, ImportMembersRowError{Row: rowNum, Message: "save failed (see server log)"})
			continue
		}
		if exists {
			result.Updated++
		} else {
			result.Created++
		}
	}

	slog.Info("members_import",
		"dry_run", input.DryRun,
		"update_mode", input.UpdateMode,
		"total", result.Total,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)

	return result, nil
}

// findExisting resolves the member a row refers to. A not-found lookup is not an error.
func findExisting(ctx context.Context, store memberStore.Store, id, email string) (domain.Member, bool, error) {
	var (
		m   domain.Member
		err error
	)
	switch {
	case id != "":
		m, err = store.GetByID(ctx, id)
	case email != "":
		m, err = store.GetByEmail(ctx, email)
	default:
		return domain.Member{}, false, nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Member{}, false, nil
	}
	if err != nil {
		return domain.Member{}, false, err
	}
	return m, true, nil
}

// ImportMembersValidationError is returned when the CSV structure is invalid (e.g. missing required columns).
type ImportMembersValidationError struct {
	Message string
}

// Error implements the error interface.
func (e *ImportMembersValidationError) Error() string {
	return e.Message
}
