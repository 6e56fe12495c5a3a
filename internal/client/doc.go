// Package client implements the command-line client of the duct-tape JSON
// API.
//
// Usage:
//
//	client register [-login name] [-password secret]
//	client login    [-login name] [-password secret]
//	client list     <books|authors> [-term t] [-filter col=value]... [-sort [-]col]... [-limit n] [-page n] [-start n]
//	client get      <books|authors> <id>
//	client create   <books|authors> col=value...
//	client update   <books|authors> <id> col=value...
//	client delete   <books|authors> <id>
//	client pick     <books|authors> [-copy]
//
// Every command but register and login first logs in with the configured
// credentials (CLIENT_LOGIN, CLIENT_PASSWORD). Rows are printed as tables;
// pick opens an interactive autocomplete picker and prints the chosen id.
package client
