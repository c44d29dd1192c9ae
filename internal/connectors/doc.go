// Package connectors holds clients for the content platforms discovery reads
// from. Each connector implements the driven.PostSource and
// driven.CommunityLookup ports for one platform; reddit is the only one.
package connectors
