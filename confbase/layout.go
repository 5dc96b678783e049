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
package confbase

import (
    "strings"
)

/*
 * The layout of collider configuration space on ETCD is as follows:
 * /  collider
 *            config
 *                      db
 *                      rest
 *                      backend
 *                      runner
 *                      logger
 *                      mail
 *                      archive
 *                      global
 */
const (
    ETCD_KEY_CONFIG_DB string = "/collider/config/db"
    ETCD_KEY_CONFIG_REST string = "/collider/config/rest"
    ETCD_KEY_CONFIG_BACKEND string = "/collider/config/backend"
    ETCD_KEY_CONFIG_RUNNER string = "/collider/config/runner"
    ETCD_KEY_CONFIG_LOGGER string = "/collider/config/logger"
    ETCD_KEY_CONFIG_MAIL string = "/collider/config/mail"
    ETCD_KEY_CONFIG_ARCHIVE string = "/collider/config/archive"
    ETCD_KEY_CONFIG_GLOBAL string = "/collider/config/global"
)

/*ETCD_CLUSTER holds a comma separated list of endpoints*/
func ConfParseEtcdEndpoints(cluster string) []string {
    endpoints := make([]string, 0)
    for _, endpoint := range strings.Split(cluster, ",") {
        endpoint = strings.TrimSpace(endpoint)
        if endpoint == "" {
            continue
        }
        if !strings.HasPrefix(endpoint, "http://") &&
            !strings.HasPrefix(endpoint, "https://") {
            endpoint = "http://" + endpoint
        }
        endpoints = append(endpoints, endpoint)
    }
    return endpoints
}
