// Package apiclient is the typed HTTP client for the remote subscription and
// payment API.
//
// Besides marshalling the request/response pairs, its main job is error
// classification: transport failures, auth rejections, not-found responses
// and server-side subscription-domain errors are mapped onto the sentinels
// of pkg/subscription so the data-access layer can decide between absence,
// degraded-mode fallback and hard failure with plain errors.Is checks.
//
//	client := apiclient.New(apiclient.Config{BaseURL: "https://api.example.com"},
//		apiclient.WithTokenSource(func(ctx context.Context) (string, error) {
//			sess, err := sessions.Get(ctx)
//			return sess.AccessToken, err
//		}))
package apiclient
