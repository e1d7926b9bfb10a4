package sqlinline

const QListProjects = `--sql 638922ce-a9b0-431a-bcf1-e4b215e79592
select id, title, description, goal_amount, current_amount, image_key, created_at, updated_at
from projects
order by created_at desc;
`

const QSelectProjectByID = `--sql 725a0d86-ae3f-4a55-9f62-55f28797630a
select id, title, description, goal_amount, current_amount, image_key, created_at, updated_at
from projects
where id = $1::uuid
limit 1;
`

const QInsertProject = `--sql 629c7d39-d2d9-4f9c-9b14-5ca03fff4140
insert into projects(title, description, goal_amount, image_key)
values ($1, $2, $3::bigint, $4)
returning id;
`

const QUpdateProject = `--sql 15ce1678-4943-40f3-8e6c-1324285bfe9c
update projects
set title = $2,
    description = $3,
    goal_amount = $4::bigint,
    updated_at = now()
where id = $1::uuid;
`

const QDeleteProject = `--sql 2465b5c0-779c-4829-b905-60f90697b76d
delete from projects
where id = $1::uuid;
`

const QSetProjectImage = `--sql 3f1e153d-fda9-42e0-9e08-a176b774c777
update projects
set image_key = $2,
    updated_at = now()
where id = $1::uuid;
`

// QIncrementProjectAmount adds a completed donation to the project total in a
// single statement so concurrent callbacks cannot lose an update.
const QIncrementProjectAmount = `--sql 1f374f5d-7f33-4228-82ce-6ac9a26d188c
update projects
set current_amount = current_amount + $2::bigint,
    updated_at = now()
where id = $1::uuid;
`
