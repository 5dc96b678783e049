/*
 Copyright (c) 2024-2025 The functional-supercollider authors
 All rights reserved.

 Redistribution and use in source and binary forms, with or without
 modification, are permitted provided that the following conditions
 are met:
  1. Redistributions of source code must retain the above copyright
     notice, this list of conditions and the following disclaimer.
  2. Redistributions in binary form must reproduce the above copyright
     notice, this list of conditions and the following disclaimer in the
     documentation and/or other materials provided with the distribution.

  THIS SOFTWARE IS PROVIDED BY THE AUTHOR AND CONTRIBUTORS ``AS IS'' AND
  ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
  IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
  ARE DISCLAIMED.  IN NO EVENT SHALL THE AUTHOR OR CONTRIBUTORS BE LIABLE
  FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
  DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS
  OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION)
  HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT
  LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY
  OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF
  SUCH DAMAGE.
*/

package runner

import (
    "fmt"
    "path/filepath"
    "strings"
)

/*
 * BuildSubmissionScript renders the script the slurm backend
 * hands to sbatch: the directive block, the environment
 * preparation and one invocation line per experiment. The
 * environment half fails loudly before any invocation runs,
 * matching what the in-process preparer does.
 */
func BuildSubmissionScript(batch *Batch, binary string,
    toolchainRoot string) string {
    var script strings.Builder

    script.WriteString("#!/bin/bash\n")
    for _, directive := range batch.Request.Directives() {
        script.WriteString(directive)
        script.WriteString("\n")
    }
    script.WriteString("\n")

    if batch.Toolchain != "" {
        toolchainDir := filepath.Join(toolchainRoot, batch.Toolchain)
        script.WriteString(fmt.Sprintf("if [ ! -d \"%s\" ]; then\n",
            toolchainDir))
        script.WriteString(fmt.Sprintf(
            "    echo \"toolchain %s not installed\" >&2\n",
            batch.Toolchain))
        script.WriteString("    exit 1\n")
        script.WriteString("fi\n")
        script.WriteString(fmt.Sprintf("export PATH=\"%s:$PATH\"\n",
            filepath.Join(toolchainDir, "bin")))
    }
    script.WriteString(fmt.Sprintf("cd \"%s\" || exit 1\n",
        batch.Workspace.Dir()))
    script.WriteString("\n")

    if batch.Policy == STOP_ON_FAILURE {
        script.WriteString("set -e\n")
    }
    for _, descriptor := range batch.Experiments {
        script.WriteString(fmt.Sprintf("%s %s\n", binary,
            strings.Join(descriptor.Argv(), " ")))
    }

    return script.String()
}
