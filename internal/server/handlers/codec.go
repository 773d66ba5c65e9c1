package handlers

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/models"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/validation"
)

// fields is a record document as a flat JSON object.
type fields map[string]json.RawMessage

// Поля, которыми управляет только сервер
var serverFields = []string{"id", "version", "created_at"}

// tableCodec validates the documents of one table and renders them in
// canonical form.
type tableCodec struct {
	decode func(data []byte) (models.Record, error)
}

func codecFor[T any, P interface {
	*T
	models.Record
}](table string, check func(P) error) tableCodec {
	return tableCodec{
		decode: func(data []byte) (models.Record, error) {
			rec := P(new(T))
			if err := json.Unmarshal(data, rec); err != nil {
				return nil, apperrors.Wrap(apperrors.CodeValidation, err, "malformed "+table+" record")
			}
			if err := validation.Struct(rec); err != nil {
				return nil, apperrors.Wrap(apperrors.CodeValidation, err, "invalid "+table+" record")
			}
			if check != nil {
				if err := check(rec); err != nil {
					return nil, apperrors.Wrap(apperrors.CodeValidation, err, "invalid "+table+" record")
				}
			}
			return rec, nil
		},
	}
}

var codecs = map[string]tableCodec{
	models.TableAddresses: codecFor[models.Address](models.TableAddresses, nil),
	models.TableOrders:    codecFor[models.Order](models.TableOrders, (*models.Order).Check),
}

func codecOf(table string) (tableCodec, error) {
	c, ok := codecs[table]
	if !ok {
		return tableCodec{}, apperrors.Newf(apperrors.CodeNotFound, "unknown table %q", table)
	}
	return c, nil
}

func decodeFields(data []byte) (fields, error) {
	var f fields
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, err, "record must be a JSON object")
	}
	if f == nil {
		return nil, apperrors.Validation("record must be a JSON object")
	}
	return f, nil
}

// merge overlays the patch on f. Server-owned keys of the patch are ignored.
func (f fields) merge(patch fields) {
	for key, value := range patch {
		if !slices.Contains(serverFields, key) {
			f[key] = value
		}
	}
}

func (f fields) setVersion(version int64) {
	f["version"] = json.RawMessage(strconv.FormatInt(version, 10))
}

// setDefault sets key unless f already holds a non-empty value.
func (f fields) setDefault(key string, value json.RawMessage) {
	switch string(f[key]) {
	case "", "null", `""`, `"0001-01-01T00:00:00Z"`:
		f[key] = value
	}
}

// canonical validates f and returns the document re-encoded from its
// typed form.
func (c tableCodec) canonical(f fields) (models.Record, json.RawMessage, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode record: %w", err)
	}
	rec, err := c.decode(data)
	if err != nil {
		return nil, nil, err
	}
	out, err := json.Marshal(rec)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return rec, out, nil
}
