package runner

import (
    "testing"
)

func TestSetupMailNotifierNeedsSender(t *testing.T) {
    if subscriber := SetupMailNotifier("ops@example.com"); subscriber != nil {
        subscriber.UnsubscribeAll()
        t.Error("notifier built without a mail sender")
    }
}
