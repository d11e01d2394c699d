// Package record reads typed fields out of loosely-typed instruction records.
//
// A Record wraps a cue.Value. JSON, CUE and YAML inputs all become CUE values
// so the compiler sees one record model and error positions survive.
//
// Extraction rules:
//   - an absent or null field is "not present": the getter returns the zero
//     value and no error
//   - a present field of the wrong shape returns a *FieldError carrying the
//     field path and source position
//   - empty lists read as nil
//   - a complex number is a [re, im] pair or a bare real
package record
