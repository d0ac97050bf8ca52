package common

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "lf_session"

// CNICLength is the number of digits in a national identity number.
const CNICLength = 13
