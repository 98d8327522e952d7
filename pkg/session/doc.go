// Package session holds the durable authenticated session: the access and
// refresh tokens plus the user record they belong to.
//
// A session is created by a successful login or by account provisioning after
// a confirmed payment, and destroyed only by an explicit logout. It is always
// written as a single value - tokens and user together - so a reader can never
// observe a half-written session where the tokens belong to one user and the
// record to another.
//
//	store := session.NewStore(kv.NewMemory())
//
//	err := store.Save(ctx, session.Session{
//		AccessToken:  tokens.Access,
//		RefreshToken: tokens.Refresh,
//		User:         user,
//	})
//
//	sess, err := store.Get(ctx)
//	if errors.Is(err, session.ErrNotFound) {
//		// not logged in
//	}
package session
