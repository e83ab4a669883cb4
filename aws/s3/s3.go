// Copyright 2017 Pilosa Corp.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions
// are met:
//
// 1. Redistributions of source code must retain the above copyright
// notice, this list of conditions and the following disclaimer.
//
// 2. Redistributions in binary form must reproduce the above copyright
// notice, this list of conditions and the following disclaimer in the
// documentation and/or other materials provided with the distribution.
//
// 3. Neither the name of the copyright holder nor the names of its
// contributors may be used to endorse or promote products derived
// from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND
// CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES,
// INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF
// MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
// DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR
// CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
// SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING,
// BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
// SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY,
// WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING
// NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
// OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH
// DAMAGE.

// Package s3 provides an OpenStringer over S3 objects so that s3:// source
// locations can be read through the same CSV reader as local paths.
package s3

import (
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pkg/errors"
)

// Opener opens one S3 object.
type Opener struct {
	bucket string
	key    string

	svc *s3.S3
}

// OpenerOption is a functional option type for s3.Opener.
type OpenerOption func(o *Opener)

// OptSvc overrides the S3 client, mainly for tests.
func OptSvc(svc *s3.S3) OpenerOption {
	return func(o *Opener) {
		o.svc = svc
	}
}

// NewOpener returns an Opener for the object at bucket/key in the given
// region.
func NewOpener(region, bucket, key string, opts ...OpenerOption) (*Opener, error) {
	o := &Opener{bucket: bucket, key: key}
	for _, opt := range opts {
		opt(o)
	}
	if o.svc == nil {
		sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
		if err != nil {
			return nil, errors.Wrap(err, "creating aws session")
		}
		o.svc = s3.New(sess)
	}
	return o, nil
}

// FromURL returns an Opener for an s3://bucket/key URL.
func FromURL(region, url string, opts ...OpenerOption) (*Opener, error) {
	bucket, key, err := ParseURL(url)
	if err != nil {
		return nil, err
	}
	return NewOpener(region, bucket, key, opts...)
}

// ParseURL splits an s3://bucket/key URL into bucket and key.
func ParseURL(url string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(url, "s3://")
	if trimmed == url {
		return "", "", errors.Errorf("not an s3 url: %q", url)
	}
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("s3 url %q must have the form s3://bucket/key", url)
	}
	return parts[0], parts[1], nil
}

// Open fetches the object. Each call reads from the beginning.
func (o *Opener) Open() (io.ReadCloser, error) {
	obj, err := o.svc.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(o.key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "getting s3 object %s", o)
	}
	return obj.Body, nil
}

// String returns the s3 URL of the object.
func (o *Opener) String() string {
	return "s3://" + o.bucket + "/" + o.key
}
