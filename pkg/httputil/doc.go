// Package httputil provides JSON response helpers shared by HTTP
// handlers, chiefly the registry fakes used in tests. Error bodies
// follow the registry's error_code/message wire shape.
package httputil
