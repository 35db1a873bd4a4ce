// Package sanitizer provides input normalization for clinic data.
//
// All normalization functions are idempotent - applying them multiple times produces
// the same result. Functions handle invalid input gracefully, returning the input
// (or an empty string) unchanged so that validation can reject it with a field error.
//
// Normalization includes:
//   - Phone numbers: Convert to E.164 format (+[country][number]) when parsable
//   - Emails: Trim and lowercase
//   - Strings: Collapse whitespace, trim leading/trailing spaces
//   - Free text: Trim only, line breaks are kept
package sanitizer
