package bounty

import (
	"github.com/huntdesk-io/huntdesk/pkg/huntapi"
)

// DefaultDomainDescription replaces an absent scope description.
const DefaultDomainDescription = "-"

// ProgramSlim is a directory listing entry: a program without its
// scope domains. Orderable by name ascending.
type ProgramSlim struct {
	ID              string
	Handle          string
	Name            string
	Confidentiality string
	Status          string
}

// Domain is one in-scope entry of a program.
type Domain struct {
	ID          string
	Type        string
	Tier        string
	Endpoint    string
	Description string
}

// Program is a full program record including its scope domains.
type Program struct {
	ProgramSlim

	Domains []Domain
}

// ProgramSlimFromRecord builds a listing entry. Confidentiality and
// status arrive wrapped in {"value": ...} envelopes.
func ProgramSlimFromRecord(rec huntapi.RawRecord) (ProgramSlim, error) {
	id, err := huntapi.RequireString(rec, "id")
	if err != nil {
		return ProgramSlim{}, err
	}

	handle, err := huntapi.RequireString(rec, "handle")
	if err != nil {
		return ProgramSlim{}, err
	}

	name, err := huntapi.RequireString(rec, "name")
	if err != nil {
		return ProgramSlim{}, err
	}

	confidentiality, err := huntapi.RequireString(rec, "confidentialityLevel.value", "confidentiality_level.value")
	if err != nil {
		return ProgramSlim{}, err
	}

	status, err := huntapi.RequireString(rec, "status.value")
	if err != nil {
		return ProgramSlim{}, err
	}

	return ProgramSlim{
		ID:              id,
		Handle:          handle,
		Name:            name,
		Confidentiality: confidentiality,
		Status:          status,
	}, nil
}

// DomainFromRecord builds one scope entry. A missing description
// resolves to a placeholder rather than failing.
func DomainFromRecord(rec huntapi.RawRecord) (Domain, error) {
	id, err := huntapi.RequireString(rec, "id")
	if err != nil {
		return Domain{}, err
	}

	endpoint, err := huntapi.RequireString(rec, "endpoint")
	if err != nil {
		return Domain{}, err
	}

	return Domain{
		ID:          id,
		Type:        huntapi.String(rec, "", "type.value"),
		Tier:        huntapi.String(rec, "", "tier.value"),
		Endpoint:    endpoint,
		Description: huntapi.String(rec, DefaultDomainDescription, "description"),
	}, nil
}

// ProgramFromRecord builds a full program. Scope domains live under
// domains.content.
func ProgramFromRecord(rec huntapi.RawRecord) (Program, error) {
	slim, err := ProgramSlimFromRecord(rec)
	if err != nil {
		return Program{}, err
	}

	program := Program{ProgramSlim: slim}

	content, ok := huntapi.Slice(rec, "domains.content", "domains")
	if !ok {
		return program, nil
	}

	domainRecs, err := huntapi.Records(content, "domains.content")
	if err != nil {
		return Program{}, err
	}

	for _, domainRec := range domainRecs {
		domain, err := DomainFromRecord(domainRec)
		if err != nil {
			return Program{}, err
		}

		program.Domains = append(program.Domains, domain)
	}

	return program, nil
}
