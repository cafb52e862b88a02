// Copyright 2026 ETH Zurich
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package env

const generalSample = `
# The ID of the run. It is attached to log entries. (default "topogen")
id = "topogen"
`

const metricsSample = `
# File the metrics are written to in the Prometheus text format, for example
# for the node exporter textfile collector. If not set, metrics are not
# exported. (default "")
text_file = ""
`
