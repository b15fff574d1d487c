// Package identity resolves a user-supplied host into the credentials
// needed to address one Tuya device.
//
// Every device speaks the local protocol only to callers that know its
// device ID and local key. Those can be given on the command line, or
// looked up in the device table: a JSON file mapping canonical host
// names (FQDN or IP literal) to [id, key] pairs:
//
//	{
//	  "apb0.home.example": ["7553155390339f8fa571", "f201b3618e4f3f10"],
//	  "slap.home.example": ["744315537003af8f9571", "f94j23118e2f5810"]
//	}
//
// Resolution precedence: explicit values win outright. When both id and
// key are supplied the table is never loaded, so it need not exist or
// even parse. Otherwise the host is canonicalized to its fully-qualified
// form (best effort; a failed lookup is a no-op) and the table entry
// fills in whatever is missing.
//
// Host canonicalization is behind the Canonicalizer interface so tests
// can substitute a fake instead of depending on real DNS.
package identity
