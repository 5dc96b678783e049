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
package client

import (
    "bytes"
    "crypto/tls"
    "encoding/json"
    "errors"
    "fmt"
    "io/ioutil"
    "net/http"
    "os"
    "strings"

    "github.com/ghodss/yaml"
    . "github.com/AgentElement/functional-supercollider/message"
)

var defaultColliderServer = "localhost:9090"

type ColliderClient struct {
    httpClient *http.Client
    server string
}

func NewColliderClient(server string) *ColliderClient {
    httpClient := &http.Client{}

    if os.Getenv("COLLIDER_INSECURE") != "" {
        tr := &http.Transport{
            TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
        }
        httpClient.Transport = tr
    }

    if server == "" {
        server = defaultColliderServer
    }

    return &ColliderClient{
        httpClient: httpClient,
        server: server,
    }
}

/*
 * SubmitBatchFile submits a batch description file to the
 * service. Files ending in .yaml or .yml are converted to JSON
 * before submission, everything else goes through as-is.
 */
func (client *ColliderClient) SubmitBatchFile(fileName string) (error, string) {
    server := client.server

    raw, err := ioutil.ReadFile(fileName)
    if err != nil {
        return err, ""
    }

    if strings.HasSuffix(fileName, ".yaml") ||
        strings.HasSuffix(fileName, ".yml") {
        raw, err = yaml.YAMLToJSON(raw)
        if err != nil {
            return err, ""
        }
    }

    url := fmt.Sprintf("http://%s/v1/batch/submit", server)
    req, err := http.NewRequest("POST", url, bytes.NewBuffer(raw))
    if err != nil {
        return err, ""
    }
    req.Header.Set("Content-Type", "application/json")

    resp, err := client.httpClient.Do(req)
    if err != nil {
        return err, ""
    }
    defer resp.Body.Close()

    decoder := json.NewDecoder(resp.Body)
    var result ColliderSubmitBatchResult
    err = decoder.Decode(&result)
    if err != nil {
        return err, ""
    }

    if result.Status == COLLIDER_API_RET_OK {
        return nil, result.JobId
    } else {
        return errors.New(result.Msg), ""
    }
}

func (client *ColliderClient) ListBatches() (error, *ColliderListBatchResult) {
    server := client.server

    url := fmt.Sprintf("http://%s/v1/batch/list", server)
    req, err := http.NewRequest("GET", url, nil)
    if err != nil {
        return err, nil
    }

    resp, err := client.httpClient.Do(req)
    if err != nil {
        return err, nil
    }
    defer resp.Body.Close()

    decoder := json.NewDecoder(resp.Body)
    var result ColliderListBatchResult
    err = decoder.Decode(&result)
    if err != nil {
        return err, nil
    }

    if result.Status != COLLIDER_API_RET_OK {
        return errors.New(result.Msg), nil
    }
    return nil, &result
}

func (client *ColliderClient) GetBatchStatus(batchId string) (error, *ColliderBatchStatus) {
    server := client.server

    url := fmt.Sprintf("http://%s/v1/batch/status/%s", server, batchId)
    req, err := http.NewRequest("GET", url, nil)
    if err != nil {
        return err, nil
    }

    resp, err := client.httpClient.Do(req)
    if err != nil {
        return err, nil
    }
    defer resp.Body.Close()

    decoder := json.NewDecoder(resp.Body)
    var result ColliderGetBatchStatusResult
    err = decoder.Decode(&result)
    if err != nil {
        return err, nil
    }

    if result.Status != COLLIDER_API_RET_OK {
        return errors.New(result.Msg), nil
    }
    return nil, result.BatchStatus
}

func (client *ColliderClient) CancelBatch(batchId string) error {
    server := client.server

    url := fmt.Sprintf("http://%s/v1/batch/cancel/%s", server, batchId)
    req, err := http.NewRequest("POST", url, nil)
    if err != nil {
        return err
    }

    resp, err := client.httpClient.Do(req)
    if err != nil {
        return err
    }
    defer resp.Body.Close()

    decoder := json.NewDecoder(resp.Body)
    var result ColliderCancelBatchResult
    err = decoder.Decode(&result)
    if err != nil {
        return err
    }

    if result.Status != COLLIDER_API_RET_OK {
        return errors.New(result.Msg)
    }
    return nil
}

func (client *ColliderClient) ListExperiments() (error, []string) {
    server := client.server

    url := fmt.Sprintf("http://%s/v1/experiment/list", server)
    req, err := http.NewRequest("GET", url, nil)
    if err != nil {
        return err, nil
    }

    resp, err := client.httpClient.Do(req)
    if err != nil {
        return err, nil
    }
    defer resp.Body.Close()

    decoder := json.NewDecoder(resp.Body)
    var result ColliderListExperimentResult
    err = decoder.Decode(&result)
    if err != nil {
        return err, nil
    }

    if result.Status != COLLIDER_API_RET_OK {
        return errors.New(result.Msg), nil
    }
    return nil, result.Experiments
}
