// Package robots models a site's robots.txt as an ordered set of rule
// groups and reports, for any URL, which user-agents the file allows,
// disallows or marks noindex.
package robots
