// Package auth provides client-side authorisation gating for Hearth Panel.
//
// The backend is the authority on access control; this package only decides
// whether a request is worth sending. It implements a 3-tier role model
// (member → admin → owner) as a total order with a fail-closed default:
// any role string outside the closed set ranks below member and is denied
// everything. Mutation classes group remote commands by required role, with
// plain device control configurable per installation.
package auth
