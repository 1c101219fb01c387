// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package config loads the filterx configuration file.

A configuration is a YAML document with runtime settings and the program
to run against every record:

	settings:
	  workers: 4
	  log_level: debug
	program:
	  - if:
	      cond: {call: {function: cel, args: [{literal: 'record.level == "debug"'}]}}
	      then:
	        - literal: false
	  - setattr:
	      object: {record: true}
	      name: host
	      value:
	        call:
	          function: lower
	          args: [{getattr: {object: {record: true}, name: host}}]
	  - call:
	      function: unset_empties
	      args: [{record: true}]

Documents are validated against an embedded JSON schema before they are
decoded. Settings may be overridden from the environment with
FILTERX_WORKERS, FILTERX_AREA_SIZE and FILTERX_LOG_LEVEL.

When no path is given, [Locate] searches the XDG configuration
directories for filterx/config.yaml.
*/
package config
