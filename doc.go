// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

/*
Package ini parses the INI configuration text format into a read-only
document model. See https://en.wikipedia.org/wiki/INI_file.

The parser makes a single pass over the input and does not cut it into
copies: keys and values are Views, spans of the one buffer the Document
owns.
Materializing an independent string is an explicit step (Entry.Str), as is
copying into caller-owned storage (Entry.CopyStr, Entry.CopyArray).

This package can also read .env files, since they are a subset of the
accepted syntax; package envfile builds on it for that purpose.

Syntax

A document consists of key-value lines, separated from each other by
newlines and from their surrounding tables by bracketed headers:

	key = value
	[table]
	key = value

The divider defaults to '=' and can be any byte (see WithDivider). Keys and
values are trimmed of ASCII whitespace. Lines whose first non-whitespace
character is '#' or ';' are comments. A '#' or ';' inside a value starts an
inline comment and truncates the value there, unless the marker is
immediately preceded by a backslash:

	path = /srv/data \# not a comment  # a real comment

Entries before the first header belong to the root table, which has no name
and is returned by Document.Root. A blank line closes a table's body;
entries after it belong to the most recently opened table. Text between a
header's closing bracket and the end of its line is discarded.

Parsing never fails on malformed text. A header with an empty name is
dropped along with its body, a line whose trimmed key is empty produces no
entry, and zero-length input produces an invalid Document (see
Document.Valid). The only errors the package reports are I/O errors from
ParseFile, ParseReader, and ParseFiles, and the bounded-copy errors
ErrInvalidArgs and ErrBufferTooSmall.

Repeated names

By default both duplicate keys and duplicate tables append, and lookups
return the first match in document order; later duplicates stay reachable
by iterating Table.Entries or Document.Tables. WithOverrideKeys makes a
duplicate key replace the first value instead, and WithMergeTables makes a
repeated header reopen the existing table instead of starting a new one.
*/
package ini
