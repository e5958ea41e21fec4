// Package identity is the credential and session authority for a multi-tenant
// account platform: bcrypt password hashing, HS256 bearer-token issuance and
// validation, single-use password-reset tokens, and admin-role gating.
//
// Accounts:
//   - Account records are persisted via Bun. Emails are normalized to
//     lowercase before every write and lookup, and a unique index on the
//     email column is the authoritative guard against concurrent signups;
//     the in-code existence check only produces a friendlier error.
//   - Cascading deletion removes caption and scheduled-post records owned by
//     an account inside the same transaction as the account row.
//
// Tokens:
//   - Bearer tokens are stateless HS256 JWTs whose subject is the account
//     email. There is no server-side revocation; a token stays valid until
//     its fixed expiry. Tokens issued before an email change keep the old
//     subject and stop resolving once that address no longer matches an
//     account.
//
// Password lifecycle:
//   - Reset requests always acknowledge generically so callers cannot probe
//     which emails exist. The reset token and its expiry column are set and
//     cleared together, never one without the other.
package identity
