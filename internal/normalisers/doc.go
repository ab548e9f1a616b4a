// Package normalisers maps provider-native records into canonical resources.
// Each normaliser understands the payload shape of one provider; the generic
// normaliser handles everything else on a best-effort basis.
//
// Normalisers are registered with the Registry at startup.
package normalisers
