// Package api is the HTTP/JSON client for the Hearth backend.
//
// It covers the full REST contract: auth, profile, devices, cameras,
// dashboard, household and session management. The client is deliberately
// thin: no retries, no caching, no local authority. Failures map onto two
// types: NetworkError when a request did not complete, RemoteError when
// the server completed it and said no. A 401 fires the OnUnauthorized hook
// so the session store can force a logout.
package api
